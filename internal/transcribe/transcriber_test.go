package transcribe

import (
	"testing"

	"github.com/clipforge/clipforge/internal/models"
)

func TestGroupWords(t *testing.T) {
	words := []Word{
		{Word: "hello", Start: 0, End: 1},
		{Word: "world", Start: 1, End: 2},
		{Word: "again", Start: 31, End: 32},
	}
	segments := GroupWords(words, 30)
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if segments[0].Text != "hello world" {
		t.Fatalf("segment 0 text = %q", segments[0].Text)
	}
	if segments[0].Start != 0 || segments[0].End != 2 {
		t.Fatalf("segment 0 span = [%v,%v]", segments[0].Start, segments[0].End)
	}
	if segments[1].Text != "again" || segments[1].Start != 31 {
		t.Fatalf("segment 1 = %+v", segments[1])
	}
}

func TestGroupWords_NeverExceedsWindow(t *testing.T) {
	var words []Word
	for i := 0; i < 200; i++ {
		words = append(words, Word{Word: "w", Start: float64(i), End: float64(i) + 0.5})
	}
	for _, seg := range GroupWords(words, MaxSegmentSeconds) {
		if seg.End-seg.Start > MaxSegmentSeconds {
			t.Fatalf("segment [%v,%v] exceeds %v seconds", seg.Start, seg.End, MaxSegmentSeconds)
		}
	}
}

func TestGroupWords_SkipsEmptyWords(t *testing.T) {
	segments := GroupWords([]Word{{Word: "  ", Start: 0, End: 1}, {Word: "ok", Start: 1, End: 2}}, 30)
	if len(segments) != 1 || segments[0].Text != "ok" {
		t.Fatalf("got %+v", segments)
	}
}

func TestBasicSegments_Table(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		window   int
		want     []models.Segment
	}{
		{
			name:     "95s with 30s window drops the 5s remainder",
			duration: 95,
			window:   30,
			want: []models.Segment{
				{Start: 0, End: 30, Text: "Segment 1"},
				{Start: 30, End: 60, Text: "Segment 2"},
				{Start: 60, End: 90, Text: "Segment 3"},
			},
		},
		{
			name:     "exact multiple",
			duration: 60,
			window:   30,
			want: []models.Segment{
				{Start: 0, End: 30, Text: "Segment 1"},
				{Start: 30, End: 60, Text: "Segment 2"},
			},
		},
		{
			name:     "shorter than one window yields one whole segment",
			duration: 12,
			window:   30,
			want:     []models.Segment{{Start: 0, End: 12, Text: "Segment 1"}},
		},
		{
			name:     "zero window defaults to 30",
			duration: 65,
			window:   0,
			want: []models.Segment{
				{Start: 0, End: 30, Text: "Segment 1"},
				{Start: 30, End: 60, Text: "Segment 2"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BasicSegments(tt.duration, tt.window)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d segments, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("segment %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBasicSegments_CapAtTen(t *testing.T) {
	segments := BasicSegments(3600, 30)
	if len(segments) != 10 {
		t.Fatalf("got %d segments, want cap of 10", len(segments))
	}
	if segments[9].End != 300 {
		t.Fatalf("last segment end = %v, want 300", segments[9].End)
	}
}

func TestBasicSegments_NonPositiveDuration(t *testing.T) {
	if got := BasicSegments(0, 30); got != nil {
		t.Fatalf("expected nil for zero duration, got %+v", got)
	}
	if got := BasicSegments(-5, 30); got != nil {
		t.Fatalf("expected nil for negative duration, got %+v", got)
	}
}
