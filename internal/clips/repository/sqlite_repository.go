package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// sqliteJobRepo persists job records in an embedded database so finished
// work survives a process restart.
type sqliteJobRepo struct {
	db  *sqlx.DB
	ttl time.Duration
}

type jobRow struct {
	JobID        string    `db:"job_id"`
	Status       string    `db:"status"`
	SourcePath   string    `db:"source_path"`
	SourceURL    string    `db:"source_url"`
	FileName     string    `db:"file_name"`
	Progress     int       `db:"progress"`
	ErrorMessage string    `db:"error_message"`
	Metadata     string    `db:"metadata"`
	Settings     string    `db:"settings"`
	Clips        string    `db:"clips"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// NewSqliteJobRepo prepares the jobs table, fails any job a previous
// process left mid-pipeline, and evicts expired terminal records.
func NewSqliteJobRepo(db *sqlx.DB, ttl time.Duration) (clips.JobRepository, error) {
	if _, err := db.Exec(createJobsTableQuery); err != nil {
		return nil, errors.Wrap(err, "sqliteJobRepo.CreateTable")
	}
	r := &sqliteJobRepo{db: db, ttl: ttl}
	if err := r.failInterruptedJobs(); err != nil {
		return nil, err
	}
	if err := r.evictExpired(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *sqliteJobRepo) failInterruptedJobs() error {
	_, err := r.db.Exec(failInterruptedJobsQuery,
		models.JobStatusFailed, "interrupted by restart", time.Now(),
		models.JobStatusUploaded, models.JobStatusCompleted, models.JobStatusFailed,
	)
	return errors.Wrap(err, "sqliteJobRepo.failInterruptedJobs")
}

func (r *sqliteJobRepo) evictExpired() error {
	if r.ttl <= 0 {
		return nil
	}
	_, err := r.db.Exec(evictExpiredJobsQuery,
		models.JobStatusCompleted, models.JobStatusFailed, time.Now().Add(-r.ttl),
	)
	return errors.Wrap(err, "sqliteJobRepo.evictExpired")
}

func (r *sqliteJobRepo) CreateJob(ctx context.Context, job *models.Job) error {
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	row, err := toRow(job)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, createJobQuery,
		row.JobID, row.Status, row.SourcePath, row.SourceURL, row.FileName,
		row.Progress, row.ErrorMessage, row.Metadata, row.Settings, row.Clips,
		row.CreatedAt, row.UpdatedAt,
	)
	return errors.Wrap(err, "sqliteJobRepo.CreateJob")
}

func (r *sqliteJobRepo) GetJobByID(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var row jobRow
	if err := r.db.GetContext(ctx, &row, getJobByIDQuery, jobID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, errors.Wrap(err, "sqliteJobRepo.GetJobByID")
	}
	return fromRow(&row)
}

func (r *sqliteJobRepo) BeginProcessing(ctx context.Context, jobID uuid.UUID, settings *models.JobSettings) (*models.Job, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return nil, errors.Wrap(err, "sqliteJobRepo.BeginProcessing.Marshal")
	}
	res, err := r.db.ExecContext(ctx, beginProcessingQuery,
		models.JobStatusProcessing, string(settingsJSON), time.Now(),
		jobID.String(), models.JobStatusUploaded,
	)
	if err != nil {
		return nil, errors.Wrap(err, "sqliteJobRepo.BeginProcessing")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.Wrap(err, "sqliteJobRepo.BeginProcessing.RowsAffected")
	}
	if affected == 0 {
		// Distinguish a missing job from a duplicate start.
		if _, getErr := r.GetJobByID(ctx, jobID); getErr != nil {
			return nil, getErr
		}
		return nil, models.ErrAlreadyProcessing
	}
	return r.GetJobByID(ctx, jobID)
}

func (r *sqliteJobRepo) UpdateProgress(ctx context.Context, jobID uuid.UUID, status models.JobStatus, progress int) error {
	return r.exec(ctx, "sqliteJobRepo.UpdateProgress", updateProgressQuery,
		status, progress, time.Now(), jobID.String())
}

func (r *sqliteJobRepo) CompleteJob(ctx context.Context, jobID uuid.UUID, clipList []models.Clip) error {
	clipsJSON, err := json.Marshal(clipList)
	if err != nil {
		return errors.Wrap(err, "sqliteJobRepo.CompleteJob.Marshal")
	}
	return r.exec(ctx, "sqliteJobRepo.CompleteJob", completeJobQuery,
		models.JobStatusCompleted, string(clipsJSON), time.Now(), jobID.String())
}

func (r *sqliteJobRepo) FailJob(ctx context.Context, jobID uuid.UUID, message string) error {
	return r.exec(ctx, "sqliteJobRepo.FailJob", failJobQuery,
		models.JobStatusFailed, message, time.Now(), jobID.String())
}

func (r *sqliteJobRepo) exec(ctx context.Context, op, query string, args ...interface{}) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, op)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func toRow(job *models.Job) (*jobRow, error) {
	row := &jobRow{
		JobID:        job.ID.String(),
		Status:       string(job.Status),
		SourcePath:   job.SourcePath,
		SourceURL:    job.SourceURL,
		FileName:     job.FileName,
		Progress:     job.Progress,
		ErrorMessage: job.Error,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
	}
	for _, enc := range []struct {
		v   interface{}
		dst *string
	}{
		{job.Metadata, &row.Metadata},
		{job.Settings, &row.Settings},
		{job.Clips, &row.Clips},
	} {
		if enc.v == nil {
			continue
		}
		b, err := json.Marshal(enc.v)
		if err != nil {
			return nil, errors.Wrap(err, "sqliteJobRepo.toRow")
		}
		*enc.dst = string(b)
	}
	return row, nil
}

func fromRow(row *jobRow) (*models.Job, error) {
	id, err := uuid.Parse(row.JobID)
	if err != nil {
		return nil, errors.Wrap(err, "sqliteJobRepo.fromRow")
	}
	job := &models.Job{
		ID:         id,
		Status:     models.JobStatus(row.Status),
		SourcePath: row.SourcePath,
		SourceURL:  row.SourceURL,
		FileName:   row.FileName,
		Progress:   row.Progress,
		Error:      row.ErrorMessage,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if row.Metadata != "" {
		job.Metadata = &models.MediaMetadata{}
		if err := json.Unmarshal([]byte(row.Metadata), job.Metadata); err != nil {
			return nil, errors.Wrap(err, "sqliteJobRepo.fromRow.Metadata")
		}
	}
	if row.Settings != "" {
		job.Settings = &models.JobSettings{}
		if err := json.Unmarshal([]byte(row.Settings), job.Settings); err != nil {
			return nil, errors.Wrap(err, "sqliteJobRepo.fromRow.Settings")
		}
	}
	if row.Clips != "" {
		if err := json.Unmarshal([]byte(row.Clips), &job.Clips); err != nil {
			return nil, errors.Wrap(err, "sqliteJobRepo.fromRow.Clips")
		}
	}
	return job, nil
}
