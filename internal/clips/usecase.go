package clips

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
)

type UseCase interface {
	UploadVideo(ctx context.Context, input *models.UploadInput) (*models.Job, error)
	StartProcessing(ctx context.Context, jobID uuid.UUID, settings *models.JobSettings) (*models.Job, error)
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error)
}

// PipelineRunner launches the clip-extraction pipeline for a job that was
// just moved to processing. The call returns immediately.
type PipelineRunner interface {
	Dispatch(job *models.Job)
}
