package server

import (
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	clipsHttp "github.com/clipforge/clipforge/internal/clips/delivery/http"
	clipsRepository "github.com/clipforge/clipforge/internal/clips/repository"
	clipsUsecase "github.com/clipforge/clipforge/internal/clips/usecase"
	"github.com/clipforge/clipforge/internal/completion"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/middleware"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/rank"
	"github.com/clipforge/clipforge/internal/transcribe"
	"github.com/clipforge/clipforge/internal/translate"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func (s *Server) MapHandlers(e *echo.Echo) error {
	jobRepo, err := s.buildJobRepo()
	if err != nil {
		return err
	}

	var artifactRepo clips.ArtifactRepository
	if s.cfg.S3.Enabled && s.s3Client != nil {
		artifactRepo = clipsRepository.NewAwsRepository(s.s3Client, s.preSignClient, s.cfg.S3.OutputBucket)
	}

	engine := media.NewFFmpeg(s.cfg.Media.FFmpegPath, s.cfg.Media.FFprobePath)

	transcriber := transcribe.NewClient(
		s.cfg.Transcriber.Enabled,
		s.cfg.Transcriber.APIKey,
		s.cfg.Transcriber.Model,
		s.cfg.Transcriber.BaseURL,
		time.Duration(s.cfg.Transcriber.TimeoutSeconds)*time.Second,
	)
	completionClient := completion.NewClient(
		s.cfg.Completion.APIKey,
		s.cfg.Completion.Model,
		s.cfg.Completion.BaseURL,
		time.Duration(s.cfg.Completion.TimeoutSeconds)*time.Second,
	)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ranker := rank.NewService(s.cfg.Completion.Enabled, completionClient, rng, s.logger)
	translator := translate.NewService(s.cfg.Completion.Enabled, completionClient)

	orchestrator := pipeline.NewOrchestrator(s.cfg, jobRepo, artifactRepo, engine, transcriber, ranker, translator, s.logger)
	clipsUC := clipsUsecase.NewClipsUseCase(s.cfg, jobRepo, engine, orchestrator, s.logger)
	clipsHandlers := clipsHttp.NewClipsHandler(clipsUC, s.logger)

	mw := middleware.NewMiddlewareManager(s.cfg, []string{"*"}, s.logger)

	e.Use(echoMw.RequestID())
	e.Use(echoMw.RecoverWithConfig(echoMw.RecoverConfig{DisableStackAll: true}))
	e.Use(echoMw.BodyLimit(fmt.Sprintf("%dM", s.cfg.Storage.MaxUploadSizeMB)))

	clipsHttp.MapClipsRoutes(e, clipsHandlers, mw)

	e.Static("/uploads", s.cfg.Storage.UploadDir)
	e.Static("/clips", s.cfg.Storage.ClipsDir)

	e.GET("/health", func(c echo.Context) error {
		s.logger.Infof("Health check RequestID: %s", utils.GetRequestID(c))
		return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
	})
	return nil
}

func (s *Server) buildJobRepo() (clips.JobRepository, error) {
	ttl := time.Duration(s.cfg.Storage.JobTTLMinutes) * time.Minute
	switch s.cfg.Storage.JobStore {
	case "redis":
		return clipsRepository.NewRedisJobRepo(s.redisClient, ttl), nil
	case "sqlite":
		return clipsRepository.NewSqliteJobRepo(s.db, ttl)
	default:
		return clipsRepository.NewMemoryJobRepo(ttl), nil
	}
}
