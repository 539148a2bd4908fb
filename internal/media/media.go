package media

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
)

// Engine abstracts the local transcoding tool so the pipeline can be
// exercised without ffmpeg installed.
type Engine interface {
	Probe(ctx context.Context, inputPath string) (*models.MediaMetadata, error)
	ExtractAudio(ctx context.Context, inputPath, outWavPath string) error
	RenderClip(ctx context.Context, inputPath, outputPath string, start, end float64, geo Geometry) error
}
