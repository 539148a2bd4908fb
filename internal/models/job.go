package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusUploaded        JobStatus = "uploaded"
	JobStatusProcessing      JobStatus = "processing"
	JobStatusExtractingAudio JobStatus = "extracting_audio"
	JobStatusTranscribing    JobStatus = "transcribing"
	JobStatusAnalyzingViral  JobStatus = "analyzing_viral"
	JobStatusGeneratingClips JobStatus = "generating_clips"
	JobStatusCompleted       JobStatus = "completed"
	JobStatusFailed          JobStatus = "failed"
)

// IsTerminal reports whether no further transitions may leave the status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// MediaMetadata is the technical description of the uploaded source,
// immutable once probed.
type MediaMetadata struct {
	DurationSeconds float64 `json:"durationSeconds"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FPS             float64 `json:"fps"`
	HasAudio        bool    `json:"hasAudio"`
	ContainerFormat string  `json:"containerFormat"`
	SizeBytes       int64   `json:"sizeBytes"`
}

// JobSettings are caller-supplied render options, immutable once
// processing starts.
type JobSettings struct {
	Resolution          string `json:"resolution" validate:"omitempty,oneof=1080p 720p 480p"`
	ClipCount           int    `json:"clipCount" validate:"required,gte=1,lte=10"`
	AspectRatio         string `json:"aspectRatio" validate:"omitempty,oneof=9:16 1:1 4:5 16:9"`
	ClipDurationSeconds int    `json:"clipDurationSeconds" validate:"omitempty,gte=5,lte=120"`
	TargetLanguage      string `json:"targetLanguage" validate:"omitempty,lte=32"`
}

// ApplyDefaults fills the fields the caller left empty.
func (s *JobSettings) ApplyDefaults() {
	if s.Resolution == "" {
		s.Resolution = "720p"
	}
	if s.AspectRatio == "" {
		s.AspectRatio = "9:16"
	}
	if s.ClipCount <= 0 {
		s.ClipCount = 3
	}
	if s.ClipDurationSeconds <= 0 {
		s.ClipDurationSeconds = 30
	}
	if s.TargetLanguage == "" {
		s.TargetLanguage = "original"
	}
}

// Job is one upload-to-clips processing unit. It is created on upload and
// mutated exclusively by the pipeline orchestrator while processing.
type Job struct {
	ID         uuid.UUID      `json:"id" db:"job_id"`
	Status     JobStatus      `json:"status" db:"status"`
	SourcePath string         `json:"-" db:"source_path"`
	SourceURL  string         `json:"sourceUrl" db:"source_url"`
	FileName   string         `json:"filename" db:"file_name"`
	Metadata   *MediaMetadata `json:"metadata" db:"-"`
	Settings   *JobSettings   `json:"settings,omitempty" db:"-"`
	Progress   int            `json:"progress" db:"progress"`
	Clips      []Clip         `json:"clips" db:"-"`
	Error      string         `json:"error,omitempty" db:"error_message"`
	CreatedAt  time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`
}

// Clone returns a deep copy so status reads never alias orchestrator-owned
// state.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Metadata != nil {
		m := *j.Metadata
		cp.Metadata = &m
	}
	if j.Settings != nil {
		s := *j.Settings
		cp.Settings = &s
	}
	if j.Clips != nil {
		cp.Clips = make([]Clip, len(j.Clips))
		copy(cp.Clips, j.Clips)
	}
	return &cp
}
