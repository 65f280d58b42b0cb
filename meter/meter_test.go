package meter

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestSampler_RunAndCancel(t *testing.T) {
	var calls int32
	s := Sampler{
		Interval: time.Millisecond,
		Source: func() (float64, error) {
			n := atomic.AddInt32(&calls, 1)
			if n%2 == 0 {
				return 0, errors.New("no audio")
			}
			return 1.7, nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	levels := s.Run(ctx)

	select {
	case lvl := <-levels:
		if lvl != 1 {
			t.Errorf("level = %v, want clamped 1", lvl)
		}
	case <-time.After(time.Second):
		t.Fatal("no level sampled")
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-levels:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestSampler_NilSource(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	for range (Sampler{Interval: time.Millisecond}).Run(ctx) {
		t.Fatal("nil source produced a level")
	}
}

func TestLevelAt(t *testing.T) {
	wave := []float64{0.1, 0.2, 0.3, 0.4}
	tests := []struct {
		pos  float64
		want float64
	}{
		{0, 0.1},
		{4.9, 0.1},
		{5, 0.2},
		{19.9, 0.4},
		{20, 0.4},
		{50, 0.4},
		{-3, 0.1},
	}
	for _, tt := range tests {
		if got := LevelAt(wave, tt.pos, 20); got != tt.want {
			t.Errorf("LevelAt(pos=%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}
	if LevelAt(nil, 1, 20) != 0 || LevelAt(wave, 1, 0) != 0 {
		t.Error("empty lane or zero duration should read 0")
	}
}

func TestBars(t *testing.T) {
	if Bars(0.5, 10) != 5 || Bars(2, 10) != 10 || Bars(0.3, 0) != 0 {
		t.Error("Bars() mismatch")
	}
}
