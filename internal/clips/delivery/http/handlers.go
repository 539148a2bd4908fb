package http

import (
	"net/http"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type clipsHandler struct {
	clipsUC clips.UseCase
	logger  logger.Logger
}

func NewClipsHandler(clipsUC clips.UseCase, log logger.Logger) clips.Handler {
	return &clipsHandler{
		clipsUC: clipsUC,
		logger:  log,
	}
}

type uploadResponse struct {
	JobID     uuid.UUID             `json:"jobId"`
	SourceURL string                `json:"sourceUrl"`
	FileName  string                `json:"filename"`
	Metadata  *models.MediaMetadata `json:"metadata"`
}

func (h *clipsHandler) UploadVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		fileHeader, err := c.FormFile("video")
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "no video file provided"})
		}
		src, err := fileHeader.Open()
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable video file"})
		}
		defer src.Close()

		input := &models.UploadInput{
			FileName: fileHeader.Filename,
			Size:     fileHeader.Size,
			File:     src,
		}
		job, err := h.clipsUC.UploadVideo(c.Request().Context(), input)
		if err != nil {
			h.logger.Errorf("upload: %v", err)
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, uploadResponse{
			JobID:     job.ID,
			SourceURL: job.SourceURL,
			FileName:  job.FileName,
			Metadata:  job.Metadata,
		})
	}
}

type processRequest struct {
	JobID    string              `json:"jobId"`
	Settings *models.JobSettings `json:"settings"`
}

func (h *clipsHandler) ProcessVideo() echo.HandlerFunc {
	return func(c echo.Context) error {
		req := &processRequest{}
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
		}
		jobID, err := uuid.Parse(req.JobID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid job id"})
		}

		job, err := h.clipsUC.StartProcessing(c.Request().Context(), jobID, req.Settings)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrNotFound):
				return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
			case errors.Is(err, models.ErrAlreadyProcessing):
				return c.JSON(http.StatusConflict, map[string]string{"error": "job already processing"})
			default:
				h.logger.Errorf("process %s: %v", jobID, err)
				return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
			}
		}
		return c.JSON(http.StatusOK, map[string]any{
			"status": string(models.JobStatusProcessing),
			"jobId":  job.ID,
		})
	}
}

func (h *clipsHandler) GetJobStatus() echo.HandlerFunc {
	return func(c echo.Context) error {
		jobID, err := uuid.Parse(c.Param("job_id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid job id"})
		}
		job, err := h.clipsUC.GetJob(c.Request().Context(), jobID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "job not found"})
			}
			h.logger.Errorf("job status %s: %v", jobID, err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return c.JSON(http.StatusOK, job)
	}
}
