package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

// MaxSegmentSeconds bounds how much speech is grouped into one segment.
const MaxSegmentSeconds = 30.0

// Transcriber converts a mono 16 kHz wav file into timestamped caption
// segments.
type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) ([]models.Segment, error)
}

// Word is one word-level timestamp from the speech-to-text service.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Client calls an OpenAI-style /v1/audio/transcriptions endpoint with
// word-level timestamps enabled.
type Client struct {
	enabled bool
	key     string
	model   string
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewClient(enabled bool, apiKey, model, baseURL string, timeout time.Duration) *Client {
	if model == "" {
		model = "whisper-1"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		enabled: enabled,
		key:     apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout + 30*time.Second},
	}
}

var _ Transcriber = (*Client)(nil)

func (c *Client) Transcribe(ctx context.Context, wavPath string) ([]models.Segment, error) {
	if !c.enabled {
		return nil, errors.Wrap(models.ErrTranscription, "transcriber disabled")
	}

	f, err := os.Open(wavPath)
	if err != nil {
		return nil, errors.Wrapf(models.ErrTranscription, "open audio: %v", err)
	}
	defer f.Close()

	var body strings.Builder
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return nil, errors.Wrapf(models.ErrTranscription, "build request: %v", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, errors.Wrapf(models.ErrTranscription, "read audio: %v", err)
	}
	_ = mw.WriteField("model", c.model)
	_ = mw.WriteField("response_format", "verbose_json")
	_ = mw.WriteField("timestamp_granularities[]", "word")
	if err := mw.Close(); err != nil {
		return nil, errors.Wrapf(models.ErrTranscription, "build request: %v", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, "POST", c.baseURL+"/v1/audio/transcriptions", strings.NewReader(body.String()))
	if err != nil {
		return nil, errors.Wrapf(models.ErrTranscription, "build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(models.ErrTranscription, "transcription request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errors.Wrapf(models.ErrTranscription, "transcription status %d: %s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var out struct {
		Text  string `json:"text"`
		Words []Word `json:"words"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrapf(models.ErrTranscription, "parse transcription: %v", err)
	}
	if len(out.Words) == 0 {
		return nil, errors.Wrap(models.ErrTranscription, "no word timestamps in response")
	}
	return GroupWords(out.Words, MaxSegmentSeconds), nil
}

// GroupWords folds word-level timestamps into caption segments. A new
// segment starts when the running one would exceed maxSeconds.
func GroupWords(words []Word, maxSeconds float64) []models.Segment {
	var segments []models.Segment
	var cur *models.Segment
	var parts []string

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(strings.Join(parts, " "))
		segments = append(segments, *cur)
		cur = nil
		parts = parts[:0]
	}

	for _, w := range words {
		txt := strings.TrimSpace(w.Word)
		if txt == "" {
			continue
		}
		if cur != nil && w.End-cur.Start > maxSeconds {
			flush()
		}
		if cur == nil {
			cur = &models.Segment{Start: w.Start}
		}
		cur.End = w.End
		parts = append(parts, txt)
	}
	flush()
	return segments
}

// BasicSegments is the credential-free fallback: consecutive fixed-length
// windows, capped at 10, remainder dropped. A source shorter than one
// window still yields a single whole-length segment. Deterministic given
// duration and window length.
func BasicSegments(durationSeconds float64, windowSeconds int) []models.Segment {
	if durationSeconds <= 0 {
		return nil
	}
	if windowSeconds <= 0 {
		windowSeconds = 30
	}
	window := float64(windowSeconds)

	count := int(durationSeconds / window)
	if count > 10 {
		count = 10
	}
	if count == 0 {
		return []models.Segment{{Start: 0, End: durationSeconds, Text: "Segment 1"}}
	}

	segments := make([]models.Segment, 0, count)
	for i := 0; i < count; i++ {
		segments = append(segments, models.Segment{
			Start: float64(i) * window,
			End:   float64(i+1) * window,
			Text:  fmt.Sprintf("Segment %d", i+1),
		})
	}
	return segments
}
