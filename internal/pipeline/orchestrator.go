package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/internal/rank"
	"github.com/clipforge/clipforge/internal/transcribe"
	"github.com/clipforge/clipforge/internal/translate"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/clipforge/clipforge/pkg/utils"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Progress milestones per stage. Rendering interpolates from 50 to 95,
// then completion pins 100.
const (
	progressExtractingAudio = 10
	progressTranscribing    = 25
	progressAnalyzingViral  = 40
	progressGeneratingClips = 50
	renderProgressSpan      = 45
)

const (
	admissionInterval   = 10 * time.Second
	maxAdmissionRetries = 30
)

// Orchestrator runs the clip-extraction pipeline: one goroutine per job,
// stages strictly sequential, the job record mutated only by that
// goroutine.
type Orchestrator struct {
	cfg         *config.Config
	jobRepo     clips.JobRepository
	artifacts   clips.ArtifactRepository
	engine      media.Engine
	transcriber transcribe.Transcriber
	ranker      rank.Ranker
	translator  translate.Translator
	logger      logger.Logger
	sem         chan struct{}
}

func NewOrchestrator(
	cfg *config.Config,
	jobRepo clips.JobRepository,
	artifacts clips.ArtifactRepository,
	engine media.Engine,
	transcriber transcribe.Transcriber,
	ranker rank.Ranker,
	translator translate.Translator,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		jobRepo:     jobRepo,
		artifacts:   artifacts,
		engine:      engine,
		transcriber: transcriber,
		ranker:      ranker,
		translator:  translator,
		logger:      log,
		sem:         make(chan struct{}, cfg.Worker.MaxConcurrentJobs),
	}
}

var _ clips.PipelineRunner = (*Orchestrator)(nil)

// Dispatch starts the pipeline and returns immediately. The job must
// already be in the processing state.
func (o *Orchestrator) Dispatch(job *models.Job) {
	go o.run(job)
}

func (o *Orchestrator) run(job *models.Job) {
	o.sem <- struct{}{}
	defer func() { <-o.sem }()
	o.waitForCPUHeadroom()

	ctx := context.Background()
	defer func() {
		if rec := recover(); rec != nil {
			o.fail(ctx, job.ID, fmt.Errorf("pipeline panic: %v", rec))
		}
	}()

	o.logger.Infof("job %s: pipeline started (clips=%d, resolution=%s, aspect=%s, lang=%s)",
		job.ID, job.Settings.ClipCount, job.Settings.Resolution, job.Settings.AspectRatio, job.Settings.TargetLanguage)

	tempDir, err := os.MkdirTemp("", "clipforge-"+job.ID.String())
	if err != nil {
		o.fail(ctx, job.ID, errors.Wrapf(models.ErrExtraction, "create temp dir: %v", err))
		return
	}
	defer func() {
		// Intermediate audio is owned by this run; removal is best effort.
		if err := os.RemoveAll(tempDir); err != nil {
			o.logger.Warnf("job %s: temp cleanup: %v", job.ID, err)
		}
	}()

	o.setStage(ctx, job.ID, models.JobStatusExtractingAudio, progressExtractingAudio)
	audioPath := filepath.Join(tempDir, "audio.wav")
	if err := o.engine.ExtractAudio(ctx, job.SourcePath, audioPath); err != nil {
		o.fail(ctx, job.ID, err)
		return
	}

	o.setStage(ctx, job.ID, models.JobStatusTranscribing, progressTranscribing)
	segments, err := o.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		o.logger.Warnf("job %s: transcription unavailable, using basic segmentation: %v", job.ID, err)
		segments = transcribe.BasicSegments(job.Metadata.DurationSeconds, job.Settings.ClipDurationSeconds)
	}
	if len(segments) == 0 {
		o.fail(ctx, job.ID, errors.Wrap(models.ErrTranscription, "no segments discovered"))
		return
	}

	o.setStage(ctx, job.ID, models.JobStatusAnalyzingViral, progressAnalyzingViral)
	scores := o.ranker.Rank(ctx, segments, job.Settings.TargetLanguage)
	for i := range segments {
		segments[i].ViralScore = scores[i].Score
	}
	selected := rank.SelectTop(segments, job.Settings.ClipCount)

	o.setStage(ctx, job.ID, models.JobStatusGeneratingClips, progressGeneratingClips)
	rendered, err := o.renderClips(ctx, job, selected)
	if err != nil {
		o.fail(ctx, job.ID, err)
		return
	}

	if err := o.jobRepo.CompleteJob(ctx, job.ID, rendered); err != nil {
		o.logger.Errorf("job %s: complete: %v", job.ID, err)
		return
	}
	o.logger.Infof("job %s: completed with %d clips", job.ID, len(rendered))
}

func (o *Orchestrator) renderClips(ctx context.Context, job *models.Job, selected []models.Segment) ([]models.Clip, error) {
	geo := media.ComputeGeometry(job.Settings.Resolution, job.Settings.AspectRatio)
	outDir := filepath.Join(o.cfg.Storage.ClipsDir, job.ID.String())
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Wrapf(models.ErrRender, "create output dir: %v", err)
	}

	total := len(selected)
	rendered := make([]models.Clip, 0, total)
	for i, seg := range selected {
		name := fmt.Sprintf("clip_%d.mp4", i+1)
		outPath := filepath.Join(outDir, name)
		if err := o.engine.RenderClip(ctx, job.SourcePath, outPath, seg.Start, seg.End, geo); err != nil {
			return nil, err
		}

		clip := models.Clip{
			Index:           i + 1,
			OutputPath:      outPath,
			OutputURL:       fmt.Sprintf("/clips/%s/%s", job.ID, name),
			StartTime:       seg.Start,
			EndTime:         seg.End,
			DurationSeconds: seg.Duration(),
			ViralScore:      seg.ViralScore,
			Subtitle:        o.subtitleFor(ctx, job, i+1, seg.Text),
			OriginalText:    seg.Text,
		}

		if o.artifacts != nil {
			key := fmt.Sprintf("clips/%s/%s", job.ID, name)
			if _, err := o.artifacts.UploadClip(ctx, outPath, key); err != nil {
				o.logger.Warnf("job %s: clip %d mirror to object storage: %v", job.ID, i+1, err)
			} else {
				clip.S3Key = key
			}
		}

		rendered = append(rendered, clip)
		o.setStage(ctx, job.ID, models.JobStatusGeneratingClips,
			progressGeneratingClips+(i+1)*renderProgressSpan/total)
	}
	return rendered, nil
}

// subtitleFor translates a clip caption, keeping the original text when
// translation is off or fails. Only that clip is affected.
func (o *Orchestrator) subtitleFor(ctx context.Context, job *models.Job, index int, text string) string {
	lang := job.Settings.TargetLanguage
	if lang == "" || lang == translate.OriginalLanguage {
		return text
	}
	translated, err := o.translator.Translate(ctx, text, lang)
	if err != nil {
		o.logger.Warnf("job %s: clip %d keeps original caption: %v", job.ID, index, err)
		return text
	}
	return translated
}

func (o *Orchestrator) setStage(ctx context.Context, jobID uuid.UUID, status models.JobStatus, progress int) {
	if err := o.jobRepo.UpdateProgress(ctx, jobID, status, progress); err != nil {
		o.logger.Errorf("job %s: update progress to %s/%d: %v", jobID, status, progress, err)
	}
}

func (o *Orchestrator) fail(ctx context.Context, jobID uuid.UUID, stageErr error) {
	o.logger.Errorf("job %s: pipeline failed: %v", jobID, stageErr)
	if err := o.jobRepo.FailJob(ctx, jobID, stageErr.Error()); err != nil {
		o.logger.Errorf("job %s: mark failed: %v", jobID, err)
	}
}

// waitForCPUHeadroom delays the job start while the host is saturated.
// A failed reading does not block the job.
func (o *Orchestrator) waitForCPUHeadroom() {
	for attempt := 0; attempt < maxAdmissionRetries; attempt++ {
		ok, usage := utils.CheckCPUUsage(o.cfg.Worker.MaxCPUUsage)
		if ok || usage == 0 {
			return
		}
		o.logger.Infof("cpu usage %.1f%% above %.1f%%, delaying job start", usage, o.cfg.Worker.MaxCPUUsage)
		time.Sleep(admissionInterval)
	}
}
