package repository

import (
	"context"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func newUploadedJob() *models.Job {
	return &models.Job{
		ID:       uuid.New(),
		Status:   models.JobStatusUploaded,
		FileName: "input.mp4",
		Metadata: &models.MediaMetadata{DurationSeconds: 95},
	}
}

func TestMemoryRepo_CreateAndGet(t *testing.T) {
	repo := NewMemoryJobRepo(time.Hour)
	ctx := context.Background()
	job := newUploadedJob()
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	got, err := repo.GetJobByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJobByID: %v", err)
	}
	if got.ID != job.ID || got.Status != models.JobStatusUploaded {
		t.Fatalf("got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not set")
	}
}

func TestMemoryRepo_GetUnknown(t *testing.T) {
	repo := NewMemoryJobRepo(time.Hour)
	if _, err := repo.GetJobByID(context.Background(), uuid.New()); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_BeginProcessingCAS(t *testing.T) {
	repo := NewMemoryJobRepo(time.Hour)
	ctx := context.Background()
	job := newUploadedJob()
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	settings := &models.JobSettings{ClipCount: 2}
	settings.ApplyDefaults()

	claimed, err := repo.BeginProcessing(ctx, job.ID, settings)
	if err != nil {
		t.Fatalf("BeginProcessing: %v", err)
	}
	if claimed.Status != models.JobStatusProcessing {
		t.Fatalf("status = %s, want processing", claimed.Status)
	}

	if _, err := repo.BeginProcessing(ctx, job.ID, settings); !errors.Is(err, models.ErrAlreadyProcessing) {
		t.Fatalf("second start: expected ErrAlreadyProcessing, got %v", err)
	}
	if _, err := repo.BeginProcessing(ctx, uuid.New(), settings); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unknown job: expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepo_ProgressNeverDecreases(t *testing.T) {
	repo := NewMemoryJobRepo(time.Hour)
	ctx := context.Background()
	job := newUploadedJob()
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if err := repo.UpdateProgress(ctx, job.ID, models.JobStatusTranscribing, 25); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if err := repo.UpdateProgress(ctx, job.ID, models.JobStatusExtractingAudio, 10); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	got, err := repo.GetJobByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJobByID: %v", err)
	}
	if got.Progress != 25 {
		t.Fatalf("progress = %d, want 25", got.Progress)
	}
}

func TestMemoryRepo_CompleteAndFail(t *testing.T) {
	repo := NewMemoryJobRepo(time.Hour)
	ctx := context.Background()

	job := newUploadedJob()
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	clips := []models.Clip{{Index: 1, OutputPath: "clips/x/clip_1.mp4", ViralScore: 88}}
	if err := repo.CompleteJob(ctx, job.ID, clips); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	got, _ := repo.GetJobByID(ctx, job.ID)
	if got.Status != models.JobStatusCompleted || got.Progress != 100 || len(got.Clips) != 1 {
		t.Fatalf("got %+v", got)
	}

	other := newUploadedJob()
	if err := repo.CreateJob(ctx, other); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if err := repo.FailJob(ctx, other.ID, "probe failed"); err != nil {
		t.Fatalf("FailJob: %v", err)
	}
	failed, _ := repo.GetJobByID(ctx, other.ID)
	if failed.Status != models.JobStatusFailed || failed.Error != "probe failed" {
		t.Fatalf("got %+v", failed)
	}
}

func TestMemoryRepo_SnapshotIsolation(t *testing.T) {
	repo := NewMemoryJobRepo(time.Hour)
	ctx := context.Background()
	job := newUploadedJob()
	if err := repo.CreateJob(ctx, job); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	snap, _ := repo.GetJobByID(ctx, job.ID)
	snap.Status = models.JobStatusFailed
	snap.Metadata.DurationSeconds = 1

	again, _ := repo.GetJobByID(ctx, job.ID)
	if again.Status != models.JobStatusUploaded || again.Metadata.DurationSeconds != 95 {
		t.Fatalf("stored job mutated through snapshot: %+v", again)
	}
}

func TestMemoryRepo_EvictsExpiredTerminalJobs(t *testing.T) {
	repo := NewMemoryJobRepo(time.Minute).(*memoryJobRepo)
	ctx := context.Background()

	old := newUploadedJob()
	if err := repo.CreateJob(ctx, old); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	if err := repo.FailJob(ctx, old.ID, "boom"); err != nil {
		t.Fatalf("FailJob: %v", err)
	}

	// Advance the clock past the TTL; the next create sweeps.
	repo.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if err := repo.CreateJob(ctx, newUploadedJob()); err != nil {
		t.Fatalf("CreateJob: %v", err)
	}

	if _, err := repo.GetJobByID(ctx, old.ID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected evicted job, got %v", err)
	}
}
