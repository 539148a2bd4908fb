package models

import "errors"

// Stage error sentinels. Wrap with pkg/errors to attach context; check
// with errors.Is to decide recovery.
var (
	ErrUpload            = errors.New("upload failed")
	ErrProbe             = errors.New("media probe failed")
	ErrExtraction        = errors.New("audio extraction failed")
	ErrTranscription     = errors.New("transcription failed")
	ErrRanking           = errors.New("viral ranking failed")
	ErrTranslation       = errors.New("translation failed")
	ErrRender            = errors.New("clip render failed")
	ErrNotFound          = errors.New("job not found")
	ErrAlreadyProcessing = errors.New("job already processing")
)
