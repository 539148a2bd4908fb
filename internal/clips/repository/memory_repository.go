package repository

import (
	"context"
	"sync"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
)

// memoryJobRepo is the default job store: a process-local table guarded
// by a RWMutex. Terminal jobs older than ttl are evicted opportunistically
// on the next create, so the table cannot grow without bound.
type memoryJobRepo struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]*models.Job
	ttl  time.Duration
	now  func() time.Time
}

func NewMemoryJobRepo(ttl time.Duration) clips.JobRepository {
	return &memoryJobRepo{
		jobs: make(map[uuid.UUID]*models.Job),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (r *memoryJobRepo) CreateJob(ctx context.Context, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictExpiredLocked()
	cp := job.Clone()
	cp.CreatedAt = r.now()
	cp.UpdatedAt = cp.CreatedAt
	r.jobs[cp.ID] = cp
	job.CreatedAt = cp.CreatedAt
	job.UpdatedAt = cp.UpdatedAt
	return nil
}

func (r *memoryJobRepo) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return job.Clone(), nil
}

func (r *memoryJobRepo) BeginProcessing(ctx context.Context, jobID uuid.UUID, settings *models.JobSettings) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if job.Status != models.JobStatusUploaded {
		return nil, models.ErrAlreadyProcessing
	}
	s := *settings
	job.Settings = &s
	job.Status = models.JobStatusProcessing
	job.UpdatedAt = r.now()
	return job.Clone(), nil
}

func (r *memoryJobRepo) UpdateProgress(ctx context.Context, jobID uuid.UUID, status models.JobStatus, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return models.ErrNotFound
	}
	job.Status = status
	if progress > job.Progress {
		job.Progress = progress
	}
	job.UpdatedAt = r.now()
	return nil
}

func (r *memoryJobRepo) CompleteJob(ctx context.Context, jobID uuid.UUID, clipList []models.Clip) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return models.ErrNotFound
	}
	job.Clips = make([]models.Clip, len(clipList))
	copy(job.Clips, clipList)
	job.Status = models.JobStatusCompleted
	job.Progress = 100
	job.UpdatedAt = r.now()
	return nil
}

func (r *memoryJobRepo) FailJob(ctx context.Context, jobID uuid.UUID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[jobID]
	if !ok {
		return models.ErrNotFound
	}
	job.Status = models.JobStatusFailed
	job.Error = message
	job.UpdatedAt = r.now()
	return nil
}

func (r *memoryJobRepo) evictExpiredLocked() {
	if r.ttl <= 0 {
		return
	}
	cutoff := r.now().Add(-r.ttl)
	for id, job := range r.jobs {
		if job.Status.IsTerminal() && job.UpdatedAt.Before(cutoff) {
			delete(r.jobs, id)
		}
	}
}
