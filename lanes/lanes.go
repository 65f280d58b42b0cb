// Package lanes prepares the thumbnail and waveform strips drawn under the timeline.
// Supplied data is used as-is (clamped); otherwise a synthetic placeholder pattern
// sized from the video duration is substituted.
package lanes

import "math"

const (
	// minWaveformSamples and maxWaveformSamples bound the synthetic waveform length.
	minWaveformSamples = 100
	maxWaveformSamples = 1000
	// minThumbnails and maxThumbnails bound the synthetic thumbnail count.
	minThumbnails = 50
	maxThumbnails = 300

	// PlaceholderThumbnail is the blank frame used when no thumbnails were supplied.
	PlaceholderThumbnail = "data:image/gif;base64,R0lGODlhAQABAIAAAAAAAP///yH5BAEAAAAALAAAAAABAAEAAAIBRAA7"
)

// WaveformLength returns the synthetic waveform length for a duration:
// clamp(ceil(duration*2), 100, 1000).
func WaveformLength(duration float64) int {
	return clampInt(ceilInt(duration*2), minWaveformSamples, maxWaveformSamples)
}

// ThumbnailCount returns the synthetic thumbnail count for a duration:
// clamp(ceil(duration/3), 50, 300).
func ThumbnailCount(duration float64) int {
	return clampInt(ceilInt(duration/3), minThumbnails, maxThumbnails)
}

// Waveform returns the amplitudes to draw. Supplied samples are clamped to [0, 1];
// an empty slice yields the synthetic pattern.
func Waveform(samples []float64, duration float64) []float64 {
	if len(samples) == 0 {
		return SyntheticWaveform(WaveformLength(duration))
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		if math.IsNaN(s) {
			s = 0
		}
		out[i] = math.Max(0, math.Min(1, s))
	}
	return out
}

// SyntheticWaveform builds n amplitudes from two overlaid sine waves.
// The result is deterministic and always within [0.1, 0.9].
func SyntheticWaveform(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		x := float64(i)
		v := 0.5 + 0.3*math.Sin(x*0.2) + 0.1*math.Sin(x*0.05+1.3)
		out[i] = math.Max(0.1, math.Min(0.9, v))
	}
	return out
}

// Thumbnails returns the frame references to draw, or placeholders when none were supplied.
func Thumbnails(refs []string, duration float64) []string {
	if len(refs) > 0 {
		out := make([]string, len(refs))
		copy(out, refs)
		return out
	}
	n := ThumbnailCount(duration)
	out := make([]string, n)
	for i := range out {
		out[i] = PlaceholderThumbnail
	}
	return out
}

// IsPlaceholder reports whether ref is the blank placeholder frame.
func IsPlaceholder(ref string) bool {
	return ref == PlaceholderThumbnail
}

// Resample reduces (or stretches) samples to exactly n buckets, keeping the peak
// of each bucket so short transients stay visible at narrow widths.
func Resample(samples []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if len(samples) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		lo := i * len(samples) / n
		hi := (i + 1) * len(samples) / n
		if hi <= lo {
			hi = lo + 1
		}
		if hi > len(samples) {
			hi = len(samples)
		}
		peak := 0.0
		for _, s := range samples[lo:hi] {
			if s > peak {
				peak = s
			}
		}
		out[i] = peak
	}
	return out
}

func ceilInt(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
