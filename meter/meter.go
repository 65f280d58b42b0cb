// Package meter drives the cosmetic audio-level bar shown next to the player.
// Sampling runs as a cancellable periodic task and never touches crop state.
package meter

import (
	"context"
	"math"
	"time"
)

// DefaultInterval is the sampling period used when none is configured.
const DefaultInterval = 50 * time.Millisecond

// Sampler polls Source every Interval and publishes the level.
type Sampler struct {
	Interval time.Duration
	Source   func() (float64, error)
}

// Run starts sampling in a goroutine. Failed samples are skipped. The returned
// channel is closed once ctx is cancelled. Slow readers drop levels rather than
// stall the loop.
func (s Sampler) Run(ctx context.Context) <-chan float64 {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	out := make(chan float64, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if s.Source == nil {
				continue
			}
			level, err := s.Source()
			if err != nil {
				continue
			}
			select {
			case out <- clamp01(level):
			default:
			}
		}
	}()
	return out
}

// LevelAt reads the lane amplitude under the playback position.
func LevelAt(waveform []float64, pos, duration float64) float64 {
	if len(waveform) == 0 || duration <= 0 {
		return 0
	}
	i := int(math.Floor(clamp01(pos/duration) * float64(len(waveform))))
	if i >= len(waveform) {
		i = len(waveform) - 1
	}
	return clamp01(waveform[i])
}

// Bars converts a level into a count of lit segments out of n.
func Bars(level float64, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Round(clamp01(level) * float64(n)))
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
