package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const jobKeyPrefix = "clipjob:"

// redisJobRepo keeps job records in Redis with a per-key TTL, so records
// outlive the process and expire without a sweeper.
type redisJobRepo struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedisJobRepo(redisClient *redis.Client, ttl time.Duration) clips.JobRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &redisJobRepo{redisClient: redisClient, ttl: ttl}
}

func jobKey(jobID uuid.UUID) string {
	return jobKeyPrefix + jobID.String()
}

func (r *redisJobRepo) CreateJob(ctx context.Context, job *models.Job) error {
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	return r.setJob(ctx, job)
}

func (r *redisJobRepo) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	data, err := r.redisClient.Get(ctx, jobKey(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "redisJobRepo.GetJobByID")
	}
	job := &models.Job{}
	if err := json.Unmarshal([]byte(data), job); err != nil {
		return nil, errors.Wrap(err, "redisJobRepo.GetJobByID.Unmarshal")
	}
	return job, nil
}

func (r *redisJobRepo) BeginProcessing(ctx context.Context, jobID uuid.UUID, settings *models.JobSettings) (*models.Job, error) {
	var started *models.Job
	key := jobKey(jobID)

	// Optimistic transaction: the transition must observe uploaded and
	// write processing atomically or a duplicate start could race.
	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return models.ErrNotFound
			}
			return err
		}
		job := &models.Job{}
		if err := json.Unmarshal([]byte(data), job); err != nil {
			return err
		}
		if job.Status != models.JobStatusUploaded {
			return models.ErrAlreadyProcessing
		}
		s := *settings
		job.Settings = &s
		job.Status = models.JobStatusProcessing
		job.UpdatedAt = time.Now()
		payload, err := json.Marshal(job)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, r.ttl)
			return nil
		})
		if err == nil {
			started = job
		}
		return err
	}
	if err := r.redisClient.Watch(ctx, txf, key); err != nil {
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrAlreadyProcessing) {
			return nil, err
		}
		return nil, errors.Wrap(err, "redisJobRepo.BeginProcessing")
	}
	return started, nil
}

func (r *redisJobRepo) UpdateProgress(ctx context.Context, jobID uuid.UUID, status models.JobStatus, progress int) error {
	return r.mutate(ctx, jobID, func(job *models.Job) {
		job.Status = status
		if progress > job.Progress {
			job.Progress = progress
		}
	})
}

func (r *redisJobRepo) CompleteJob(ctx context.Context, jobID uuid.UUID, clipList []models.Clip) error {
	return r.mutate(ctx, jobID, func(job *models.Job) {
		job.Clips = clipList
		job.Status = models.JobStatusCompleted
		job.Progress = 100
	})
}

func (r *redisJobRepo) FailJob(ctx context.Context, jobID uuid.UUID, message string) error {
	return r.mutate(ctx, jobID, func(job *models.Job) {
		job.Status = models.JobStatusFailed
		job.Error = message
	})
}

// mutate is a plain read-modify-write: while processing, the single
// pipeline goroutine is the only writer for its job.
func (r *redisJobRepo) mutate(ctx context.Context, jobID uuid.UUID, fn func(*models.Job)) error {
	job, err := r.GetJobByID(ctx, jobID)
	if err != nil {
		return err
	}
	fn(job)
	job.UpdatedAt = time.Now()
	return r.setJob(ctx, job)
}

func (r *redisJobRepo) setJob(ctx context.Context, job *models.Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return errors.Wrap(err, "redisJobRepo.setJob.Marshal")
	}
	if err := r.redisClient.Set(ctx, jobKey(job.ID), payload, r.ttl).Err(); err != nil {
		return errors.Wrap(err, "redisJobRepo.setJob")
	}
	return nil
}
