package clips

import (
	"context"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
)

// JobRepository is the job store. All mutations while processing come
// from the single pipeline goroutine owning the job; reads return
// snapshots. Implementations return models.ErrNotFound for unknown ids.
type JobRepository interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error)

	// BeginProcessing atomically transitions uploaded -> processing with
	// the given settings. A job past uploaded returns
	// models.ErrAlreadyProcessing, so a duplicate start can never race a
	// running pipeline.
	BeginProcessing(ctx context.Context, jobID uuid.UUID, settings *models.JobSettings) (*models.Job, error)

	UpdateProgress(ctx context.Context, jobID uuid.UUID, status models.JobStatus, progress int) error
	CompleteJob(ctx context.Context, jobID uuid.UUID, clips []models.Clip) error
	FailJob(ctx context.Context, jobID uuid.UUID, message string) error
}
