package rank

import (
	"context"
	"math/rand"
	"testing"

	"github.com/clipforge/clipforge/internal/models"
)

func segmentsN(n int) []models.Segment {
	out := make([]models.Segment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Segment{Start: float64(i * 30), End: float64((i + 1) * 30)})
	}
	return out
}

func TestRank_FallbackScoreRange(t *testing.T) {
	svc := NewService(false, nil, rand.New(rand.NewSource(1)), nil)
	scores := svc.Rank(context.Background(), segmentsN(20), "original")
	if len(scores) != 20 {
		t.Fatalf("got %d scores, want 20", len(scores))
	}
	for _, s := range scores {
		if s.Score < 50 || s.Score > 100 {
			t.Fatalf("score %v out of [50,100] for index %d", s.Score, s.Index)
		}
	}
}

func TestRank_FallbackIndicesMatchSegments(t *testing.T) {
	svc := NewService(false, nil, rand.New(rand.NewSource(7)), nil)
	scores := svc.Rank(context.Background(), segmentsN(3), "original")
	for i, s := range scores {
		if s.Index != i {
			t.Fatalf("score %d has index %d", i, s.Index)
		}
	}
}

func TestRank_FallbackDeterministicWithSeed(t *testing.T) {
	a := NewService(false, nil, rand.New(rand.NewSource(42)), nil).Rank(context.Background(), segmentsN(5), "original")
	b := NewService(false, nil, rand.New(rand.NewSource(42)), nil).Rank(context.Background(), segmentsN(5), "original")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed diverged at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRank_EmptyInput(t *testing.T) {
	svc := NewService(false, nil, rand.New(rand.NewSource(1)), nil)
	if scores := svc.Rank(context.Background(), nil, "original"); scores != nil {
		t.Fatalf("expected nil scores for empty input, got %+v", scores)
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare array", `[{"index":0,"score":80}]`, `[{"index":0,"score":80}]`, false},
		{"code fenced", "```json\n[{\"index\":0,\"score\":80}]\n```", `[{"index":0,"score":80}]`, false},
		{"prose around", `Here you go: [{"index":0,"score":80}] hope that helps`, `[{"index":0,"score":80}]`, false},
		{"empty", "", "", true},
		{"no array", "I cannot rate these segments.", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONArray(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("extractJSONArray: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if clamp(-3, 0, 100) != 0 {
		t.Fatal("clamp below")
	}
	if clamp(140, 0, 100) != 100 {
		t.Fatal("clamp above")
	}
	if clamp(55, 0, 100) != 55 {
		t.Fatal("clamp inside")
	}
}
