package models

import "io"

// UploadInput carries one multipart upload into the usecase layer.
type UploadInput struct {
	FileName string `validate:"required,lte=255"`
	Size     int64  `validate:"required,gt=0"`
	File     io.Reader
}
