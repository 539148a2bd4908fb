package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

// FFmpeg invokes the ffmpeg/ffprobe binaries as subprocesses.
type FFmpeg struct {
	ffmpeg  string
	ffprobe string
}

func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

var _ Engine = (*FFmpeg)(nil)

type probeStream struct {
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
}

type probeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
}

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

func (f *FFmpeg) Probe(ctx context.Context, inputPath string) (*models.MediaMetadata, error) {
	cmd := exec.CommandContext(ctx, f.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(models.ErrProbe, "ffprobe: %v: %s", err, strings.TrimSpace(string(b)))
	}
	meta, err := ParseProbeOutput(b)
	if err != nil {
		return nil, err
	}
	if meta.SizeBytes == 0 {
		if fi, statErr := os.Stat(inputPath); statErr == nil {
			meta.SizeBytes = fi.Size()
		}
	}
	return meta, nil
}

// ParseProbeOutput converts ffprobe's JSON document into media metadata.
func ParseProbeOutput(raw []byte) (*models.MediaMetadata, error) {
	var out probeOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, errors.Wrapf(models.ErrProbe, "parse ffprobe output: %v", err)
	}
	if len(out.Streams) == 0 {
		return nil, errors.Wrap(models.ErrProbe, "no streams in input")
	}

	meta := &models.MediaMetadata{
		ContainerFormat: out.Format.FormatName,
	}
	if out.Format.Duration != "" {
		d, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return nil, errors.Wrapf(models.ErrProbe, "parse duration %q: %v", out.Format.Duration, err)
		}
		meta.DurationSeconds = d
	}
	if out.Format.Size != "" {
		if sz, err := strconv.ParseInt(out.Format.Size, 10, 64); err == nil {
			meta.SizeBytes = sz
		}
	}

	foundVideo := false
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if foundVideo {
				continue
			}
			foundVideo = true
			meta.Width = s.Width
			meta.Height = s.Height
			rate := s.RFrameRate
			if rate == "" || rate == "0/0" {
				rate = s.AvgFrameRate
			}
			meta.FPS = parseFrameRate(rate)
		case "audio":
			meta.HasAudio = true
		}
	}
	if !foundVideo {
		return nil, errors.Wrap(models.ErrProbe, "no video stream in input")
	}
	return meta, nil
}

const defaultFrameRate = 30

// parseFrameRate evaluates an ffprobe rational like "30000/1001" by
// parsing the two integers and dividing. Anything unparseable, missing
// or degenerate defaults to 30.
func parseFrameRate(rate string) float64 {
	rate = strings.TrimSpace(rate)
	if rate == "" {
		return defaultFrameRate
	}
	num, den, found := strings.Cut(rate, "/")
	if !found {
		if v, err := strconv.ParseFloat(num, 64); err == nil && v > 0 {
			return v
		}
		return defaultFrameRate
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return defaultFrameRate
	}
	d, err := strconv.Atoi(den)
	if err != nil || d == 0 || n <= 0 {
		return defaultFrameRate
	}
	return float64(n) / float64(d)
}

func (f *FFmpeg) ExtractAudio(ctx context.Context, inputPath, outWavPath string) error {
	cmd := exec.CommandContext(ctx, f.ffmpeg,
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWavPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(models.ErrExtraction, "ffmpeg extract audio: %v: %s", err, tail(string(b)))
	}
	return nil
}

func (f *FFmpeg) RenderClip(ctx context.Context, inputPath, outputPath string, start, end float64, geo Geometry) error {
	// Scale to fit, then pad to the exact target frame. Never crop.
	vf := fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black",
		geo.Width, geo.Height, geo.Width, geo.Height,
	)
	cmd := exec.CommandContext(ctx, f.ffmpeg,
		"-y",
		"-ss", fmtSeconds(start),
		"-to", fmtSeconds(end),
		"-i", inputPath,
		"-vf", vf,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		outputPath,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return errors.Wrapf(models.ErrRender, "ffmpeg render clip: %v: %s", err, tail(string(b)))
	}
	return nil
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

// tail keeps error output readable; ffmpeg logs its banner first.
func tail(s string) string {
	s = strings.TrimSpace(s)
	const max = 500
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
