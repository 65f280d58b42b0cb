package lanes

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// waveformSampleRate is the mono PCM rate decoded for peak analysis.
	waveformSampleRate = 8000
	thumbWidth         = 160
	thumbHeight        = 90
)

// RunFunc executes an external command and returns its stdout.
type RunFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// Extractor pre-renders lane data from a media file with ffprobe and ffmpeg.
type Extractor struct {
	run RunFunc
}

// NewExtractor returns an Extractor that shells out to ffprobe/ffmpeg.
// A nil run uses os/exec.
func NewExtractor(run RunFunc) *Extractor {
	if run == nil {
		run = execRun
	}
	return &Extractor{run: run}
}

func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

type ffprobeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the media duration in seconds.
func (e *Extractor) Probe(ctx context.Context, path string) (float64, error) {
	out, err := e.run(ctx, "ffprobe",
		"-v", "error",
		"-show_format",
		"-of", "json",
		path,
	)
	if err != nil {
		return 0, err
	}
	var ff ffprobeFormat
	if err := json.Unmarshal(out, &ff); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}
	dur, err := strconv.ParseFloat(ff.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", ff.Format.Duration, err)
	}
	return dur, nil
}

// Waveform decodes the first audio stream to mono PCM and returns n normalised
// peak amplitudes.
func (e *Extractor) Waveform(ctx context.Context, path string, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("waveform length must be positive, got %d", n)
	}
	out, err := e.run(ctx, "ffmpeg",
		"-nostats", "-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(waveformSampleRate),
		"-f", "s16le",
		"pipe:1",
	)
	if err != nil {
		return nil, err
	}
	pcm := make([]int16, len(out)/2)
	if err := binary.Read(bytes.NewReader(out[:len(pcm)*2]), binary.LittleEndian, pcm); err != nil {
		return nil, fmt.Errorf("read pcm: %w", err)
	}
	return Peaks(pcm, n), nil
}

// Peaks folds PCM samples into n buckets holding the absolute peak of each,
// normalised so the loudest bucket is 1.
func Peaks(pcm []int16, n int) []float64 {
	abs := make([]float64, len(pcm))
	for i, s := range pcm {
		abs[i] = math.Abs(float64(s))
	}
	peaks := Resample(abs, n)
	max := 0.0
	for _, p := range peaks {
		if p > max {
			max = p
		}
	}
	if max == 0 {
		return peaks
	}
	for i := range peaks {
		peaks[i] /= max
	}
	return peaks
}

// Thumbnails writes count evenly spaced frames of the video into dir and returns
// their paths in timeline order.
func (e *Extractor) Thumbnails(ctx context.Context, path, dir string, duration float64, count int) ([]string, error) {
	if duration <= 0 || count <= 0 {
		return nil, fmt.Errorf("cannot sample %d thumbnails from duration %g", count, duration)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create thumbnail dir: %w", err)
	}
	pattern := filepath.Join(dir, "thumb-%04d.jpg")
	_, err := e.run(ctx, "ffmpeg",
		"-nostats", "-hide_banner", "-loglevel", "error",
		"-y",
		"-i", path,
		"-vf", fmt.Sprintf("fps=%g,scale=%d:%d", float64(count)/duration, thumbWidth, thumbHeight),
		"-frames:v", strconv.Itoa(count),
		"-q:v", "5",
		pattern,
	)
	if err != nil {
		return nil, err
	}
	matches, err := filepath.Glob(filepath.Join(dir, "thumb-*.jpg"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}
