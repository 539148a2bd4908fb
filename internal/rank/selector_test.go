package rank

import (
	"testing"

	"github.com/clipforge/clipforge/internal/models"
)

func TestSelectTop(t *testing.T) {
	segments := []models.Segment{
		{Text: "a", ViralScore: 60},
		{Text: "b", ViralScore: 90},
		{Text: "c", ViralScore: 75},
		{Text: "d", ViralScore: 82},
	}

	top := SelectTop(segments, 2)
	if len(top) != 2 {
		t.Fatalf("got %d segments, want 2", len(top))
	}
	if top[0].Text != "b" || top[1].Text != "d" {
		t.Fatalf("got order %q, %q; want b, d", top[0].Text, top[1].Text)
	}
}

func TestSelectTop_KExceedsLen(t *testing.T) {
	segments := []models.Segment{{Text: "a", ViralScore: 1}, {Text: "b", ViralScore: 2}}
	top := SelectTop(segments, 10)
	if len(top) != 2 {
		t.Fatalf("got %d segments, want 2", len(top))
	}
}

func TestSelectTop_StableOnTies(t *testing.T) {
	segments := []models.Segment{
		{Text: "first", ViralScore: 70},
		{Text: "second", ViralScore: 70},
		{Text: "third", ViralScore: 70},
	}
	top := SelectTop(segments, 3)
	if top[0].Text != "first" || top[1].Text != "second" || top[2].Text != "third" {
		t.Fatalf("tie order not preserved: %+v", top)
	}
}

func TestSelectTop_DoesNotMutateInput(t *testing.T) {
	segments := []models.Segment{
		{Text: "a", ViralScore: 10},
		{Text: "b", ViralScore: 99},
	}
	_ = SelectTop(segments, 1)
	if segments[0].Text != "a" {
		t.Fatalf("input reordered: %+v", segments)
	}
}

func TestSelectTop_Degenerate(t *testing.T) {
	if out := SelectTop(nil, 3); out != nil {
		t.Fatalf("expected nil for empty input, got %+v", out)
	}
	if out := SelectTop([]models.Segment{{Text: "a"}}, 0); out != nil {
		t.Fatalf("expected nil for k=0, got %+v", out)
	}
}
