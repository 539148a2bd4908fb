package models

// Segment is a candidate time interval of the source video. Segments are
// produced fresh per job and owned by that job's pipeline run.
type Segment struct {
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Text       string  `json:"text"`
	ViralScore float64 `json:"viralScore"`
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// SegmentScore pairs a segment's discovery index with its assigned score.
type SegmentScore struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Clip is one rendered output file corresponding to a selected segment.
type Clip struct {
	Index           int     `json:"index"`
	OutputPath      string  `json:"outputPath"`
	OutputURL       string  `json:"outputUrl"`
	S3Key           string  `json:"s3Key,omitempty"`
	StartTime       float64 `json:"startTime"`
	EndTime         float64 `json:"endTime"`
	DurationSeconds float64 `json:"durationSeconds"`
	ViralScore      float64 `json:"viralScore"`
	Subtitle        string  `json:"subtitle"`
	OriginalText    string  `json:"originalText"`
}
