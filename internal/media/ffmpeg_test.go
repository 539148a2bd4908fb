package media

import (
	"testing"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

func TestParseProbeOutput(t *testing.T) {
	raw := []byte(`{
		"streams": [
			{"codec_type": "video", "width": 1920, "height": 1080, "r_frame_rate": "30000/1001"},
			{"codec_type": "audio"}
		],
		"format": {"format_name": "mov,mp4,m4a,3gp,3g2,mj2", "duration": "95.000000", "size": "1048576"}
	}`)
	meta, err := ParseProbeOutput(raw)
	if err != nil {
		t.Fatalf("ParseProbeOutput: %v", err)
	}
	if meta.Width != 1920 || meta.Height != 1080 {
		t.Fatalf("got %dx%d, want 1920x1080", meta.Width, meta.Height)
	}
	if meta.DurationSeconds != 95 {
		t.Fatalf("duration = %v, want 95", meta.DurationSeconds)
	}
	if !meta.HasAudio {
		t.Fatal("expected hasAudio")
	}
	if meta.SizeBytes != 1048576 {
		t.Fatalf("size = %d, want 1048576", meta.SizeBytes)
	}
	want := 30000.0 / 1001.0
	if diff := meta.FPS - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("fps = %v, want %v", meta.FPS, want)
	}
}

func TestParseProbeOutput_NoVideoStream(t *testing.T) {
	raw := []byte(`{"streams": [{"codec_type": "audio"}], "format": {"duration": "12.0"}}`)
	if _, err := ParseProbeOutput(raw); !errors.Is(err, models.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}

func TestParseProbeOutput_NoStreams(t *testing.T) {
	raw := []byte(`{"streams": [], "format": {}}`)
	if _, err := ParseProbeOutput(raw); !errors.Is(err, models.ErrProbe) {
		t.Fatalf("expected ErrProbe, got %v", err)
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"30000/1001", 30000.0 / 1001.0},
		{"25/1", 25},
		{"24", 24},
		{"", 30},
		{"0/0", 30},
		{"30/0", 30},
		{"-25/1", 30},
		{"garbage", 30},
		{"a/b", 30},
	}
	for _, tt := range tests {
		if got := parseFrameRate(tt.in); got != tt.want {
			t.Fatalf("parseFrameRate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
