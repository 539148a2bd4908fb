package clips

import "github.com/labstack/echo/v4"

type Handler interface {
	UploadVideo() echo.HandlerFunc
	ProcessVideo() echo.HandlerFunc
	GetJobStatus() echo.HandlerFunc
}
