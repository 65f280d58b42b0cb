package clip

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/user/clip-trimmer/db"
)

// DefaultPollInterval is how long the worker sleeps when the queue is empty
// or the store returned an error.
const DefaultPollInterval = 2 * time.Second

// CutFunc runs ffmpeg with args and returns its combined output.
type CutFunc func(ctx context.Context, args []string) ([]byte, error)

// Processor manages the background trim worker.
type Processor struct {
	DB           *sql.DB
	Logger       *slog.Logger
	PollInterval time.Duration

	// RemoteDir holds trims of URL sources. Empty means the working directory.
	RemoteDir string

	// Cut overrides how ffmpeg is invoked. Nil runs the ffmpeg binary on PATH.
	Cut CutFunc
}

// Start launches a goroutine that continuously polls for pending trims and processes them.
// The returned channel is closed once the goroutine exits after ctx is cancelled.
func (p *Processor) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			worked, err := p.RunOnce(ctx)
			if err != nil {
				p.logger().Warn("polling trim tasks", "err", err)
			}
			if err != nil || !worked {
				select {
				case <-ctx.Done():
					return
				case <-time.After(p.pollInterval()):
				}
			}
		}
	}()
	return done
}

// RunOnce processes the oldest pending task, if any. It reports whether a
// task was picked up. Task failures are recorded on the task row, not returned.
func (p *Processor) RunOnce(ctx context.Context) (bool, error) {
	task, err := db.SelectNextPendingTask(p.DB)
	if err != nil {
		return false, err
	}
	if task == nil {
		return false, nil
	}
	p.processTask(ctx, task)
	return true, nil
}

// Drain processes pending tasks until the queue is empty or ctx ends.
// It returns the number of tasks picked up.
func (p *Processor) Drain(ctx context.Context) (int, error) {
	n := 0
	for ctx.Err() == nil {
		worked, err := p.RunOnce(ctx)
		if err != nil {
			return n, err
		}
		if !worked {
			break
		}
		n++
	}
	return n, ctx.Err()
}

// processTask handles the full lifecycle of cutting a single trim.
func (p *Processor) processTask(ctx context.Context, t *db.PendingTask) {
	log := p.logger().With("task", t.UUID, "video", t.VideoPath)

	if p.Cut == nil {
		if _, err := exec.LookPath("ffmpeg"); err != nil {
			p.fail(log, t.ID, "ffmpeg not found in PATH")
			return
		}
	}

	if err := db.MarkTaskProcessing(p.DB, t.ID, time.Now()); err != nil {
		log.Error("marking task processing", "err", err)
		return
	}

	folder, filename := TrimPaths(t.VideoPath, p.RemoteDir, t.UUID, t.Start, t.End)
	if err := os.MkdirAll(folder, 0755); err != nil {
		p.fail(log, t.ID, fmt.Sprintf("mkdir: %v", err))
		return
	}
	outPath := filepath.Join(folder, filename)

	out, err := p.cut(ctx, CutArgs(t.VideoPath, outPath, t.Start, t.End))
	if err != nil {
		msg := string(out)
		if msg == "" {
			msg = err.Error()
		}
		p.fail(log, t.ID, msg)
		return
	}

	info, err := os.Stat(outPath)
	if err != nil {
		p.fail(log, t.ID, fmt.Sprintf("stat output: %v", err))
		return
	}

	if err := db.MarkTaskComplete(p.DB, t.ID, time.Now(), outPath, info.Size()); err != nil {
		log.Error("marking task complete", "err", err)
		return
	}
	log.Info("trim complete", "output", outPath, "bytes", info.Size())
}

// CutArgs builds the ffmpeg arguments for a stream-copy cut of [start, end].
func CutArgs(videoPath, outPath string, start, end float64) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", videoPath,
		"-c", "copy",
		"-avoid_negative_ts", "make_zero",
		outPath,
	}
}

func (p *Processor) fail(log *slog.Logger, id int64, msg string) {
	log.Warn("trim failed", "reason", msg)
	if err := db.MarkTaskError(p.DB, id, time.Now(), msg); err != nil {
		log.Error("marking task error", "err", err)
	}
}

func (p *Processor) cut(ctx context.Context, args []string) ([]byte, error) {
	if p.Cut != nil {
		return p.Cut(ctx, args)
	}
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Processor) pollInterval() time.Duration {
	if p.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return p.PollInterval
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
