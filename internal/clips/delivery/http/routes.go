package http

import (
	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/middleware"
	"github.com/labstack/echo/v4"
)

func MapClipsRoutes(e *echo.Echo, h clips.Handler, mw *middleware.MiddlewareManager) {
	e.POST("/upload", h.UploadVideo(), mw.RequestLoggerMiddleware)
	e.POST("/process", h.ProcessVideo(), mw.RequestLoggerMiddleware)
	e.GET("/job/:job_id", h.GetJobStatus())
}
