package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var allowedVideoExtensions = map[string]bool{
	".mp4": true, ".mkv": true, ".avi": true, ".mov": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".mpeg": true, ".mpg": true, ".3gp": true, ".ts": true,
}

type clipsUC struct {
	cfg      *config.Config
	jobRepo  clips.JobRepository
	engine   media.Engine
	pipeline clips.PipelineRunner
	logger   logger.Logger
}

func NewClipsUseCase(
	cfg *config.Config,
	jobRepo clips.JobRepository,
	engine media.Engine,
	pipeline clips.PipelineRunner,
	log logger.Logger,
) clips.UseCase {
	return &clipsUC{
		cfg:      cfg,
		jobRepo:  jobRepo,
		engine:   engine,
		pipeline: pipeline,
		logger:   log,
	}
}

// UploadVideo persists the uploaded file, probes it, and registers a job
// in the uploaded state. The file on disk and the probe must both succeed
// before a job exists.
func (u *clipsUC) UploadVideo(ctx context.Context, input *models.UploadInput) (*models.Job, error) {
	if err := utils.ValidateStruct(ctx, input); err != nil {
		return nil, errors.Wrap(models.ErrUpload, err.Error())
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	if !allowedVideoExtensions[ext] {
		return nil, errors.Wrapf(models.ErrUpload, "unsupported file type %q", ext)
	}

	jobID := uuid.New()
	if err := os.MkdirAll(u.cfg.Storage.UploadDir, 0o755); err != nil {
		return nil, errors.Wrapf(models.ErrUpload, "prepare upload dir: %v", err)
	}
	storedName := fmt.Sprintf("%s%s", jobID, ext)
	sourcePath := filepath.Join(u.cfg.Storage.UploadDir, storedName)

	if err := u.saveFile(sourcePath, input.File); err != nil {
		return nil, err
	}

	metadata, err := u.engine.Probe(ctx, sourcePath)
	if err != nil {
		if rmErr := os.Remove(sourcePath); rmErr != nil {
			u.logger.Warnf("remove unprobeable upload %s: %v", sourcePath, rmErr)
		}
		return nil, errors.Wrapf(models.ErrUpload, "probe: %v", err)
	}

	job := &models.Job{
		ID:         jobID,
		Status:     models.JobStatusUploaded,
		SourcePath: sourcePath,
		SourceURL:  "/uploads/" + storedName,
		FileName:   input.FileName,
		Metadata:   metadata,
		Clips:      []models.Clip{},
	}
	if err := u.jobRepo.CreateJob(ctx, job); err != nil {
		return nil, errors.Wrapf(models.ErrUpload, "register job: %v", err)
	}

	u.logger.Infof("job %s: uploaded %q (%.1fs, %dx%d)",
		job.ID, input.FileName, metadata.DurationSeconds, metadata.Width, metadata.Height)
	return job, nil
}

func (u *clipsUC) saveFile(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(models.ErrUpload, "create file: %v", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return errors.Wrapf(models.ErrUpload, "write file: %v", err)
	}
	return nil
}

// StartProcessing validates settings, claims the job, and hands it to the
// pipeline. The claim is atomic, so a second start on the same job gets
// models.ErrAlreadyProcessing instead of a duplicate pipeline.
func (u *clipsUC) StartProcessing(ctx context.Context, jobID uuid.UUID, settings *models.JobSettings) (*models.Job, error) {
	if settings == nil {
		settings = &models.JobSettings{}
	}
	settings.ApplyDefaults()
	if err := utils.ValidateStruct(ctx, settings); err != nil {
		return nil, errors.Wrap(models.ErrUpload, err.Error())
	}

	job, err := u.jobRepo.BeginProcessing(ctx, jobID, settings)
	if err != nil {
		return nil, err
	}

	u.pipeline.Dispatch(job.Clone())
	return job, nil
}

func (u *clipsUC) GetJob(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	return u.jobRepo.GetJobByID(ctx, jobID)
}
