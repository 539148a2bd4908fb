package rank

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/clipforge/clipforge/internal/completion"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/pkg/errors"
)

// Ranker assigns a viral score to every discovered segment. Scoring is
// all-or-nothing per job: one batched external call, or the randomized
// fallback for the whole batch.
type Ranker interface {
	Rank(ctx context.Context, segments []models.Segment, targetLanguage string) []models.SegmentScore
}

type Service struct {
	enabled bool
	client  *completion.Client
	logger  logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewService builds a ranker. The rng feeds the fallback path only; pass
// a fixed-seed source in tests to pin scores.
func NewService(enabled bool, client *completion.Client, rng *rand.Rand, log logger.Logger) *Service {
	return &Service{enabled: enabled, client: client, logger: log, rng: rng}
}

var _ Ranker = (*Service)(nil)

func (s *Service) Rank(ctx context.Context, segments []models.Segment, targetLanguage string) []models.SegmentScore {
	if len(segments) == 0 {
		return nil
	}
	if s.enabled && s.client != nil {
		scores, err := s.rankExternal(ctx, segments, targetLanguage)
		if err == nil {
			return scores
		}
		s.logger.Warnf("viral ranking unavailable, assigning randomized scores: %v", err)
	}
	return s.fallbackScores(len(segments))
}

func (s *Service) rankExternal(ctx context.Context, segments []models.Segment, targetLanguage string) ([]models.SegmentScore, error) {
	type cand struct {
		Index    int     `json:"index"`
		StartSec float64 `json:"start_sec"`
		EndSec   float64 `json:"end_sec"`
		Text     string  `json:"text"`
	}
	arr := make([]cand, 0, len(segments))
	for i, seg := range segments {
		arr = append(arr, cand{Index: i, StartSec: seg.Start, EndSec: seg.End, Text: seg.Text})
	}
	cb, err := json.Marshal(arr)
	if err != nil {
		return nil, errors.Wrapf(models.ErrRanking, "marshal candidates: %v", err)
	}

	prompt := "Rate each video segment's potential to perform well as a short social clip. " +
		"Audience language hint: " + targetLanguage + ". " +
		"Return strictly a JSON array (no markdown, no code fences) of objects " +
		`{"index": <segment index>, "score": <0-100>}, one per input segment.` +
		"\n\nSegments JSON:\n" + string(cb)

	content, err := s.client.Complete(ctx, prompt)
	if err != nil {
		return nil, errors.Wrapf(models.ErrRanking, "%v", err)
	}

	clean, err := extractJSONArray(content)
	if err != nil {
		return nil, errors.Wrapf(models.ErrRanking, "%v", err)
	}

	var raw []models.SegmentScore
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return nil, errors.Wrapf(models.ErrRanking, "parse scores: %v", err)
	}

	byIndex := make(map[int]float64, len(raw))
	for _, r := range raw {
		byIndex[r.Index] = clamp(r.Score, 0, 100)
	}
	out := make([]models.SegmentScore, 0, len(segments))
	for i := range segments {
		score, ok := byIndex[i]
		if !ok {
			return nil, errors.Wrapf(models.ErrRanking, "response missing score for segment %d", i)
		}
		out = append(out, models.SegmentScore{Index: i, Score: score})
	}
	return out, nil
}

// fallbackScores assigns each segment a uniform random score in [50,100].
func (s *Service) fallbackScores(n int) []models.SegmentScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SegmentScore, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.SegmentScore{Index: i, Score: 50 + s.rng.Float64()*50})
	}
	return out
}

func extractJSONArray(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("empty content")
	}

	// Strip markdown code fences.
	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("could not locate JSON array in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}
