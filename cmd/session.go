package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/user/clip-trimmer/clip"
	"github.com/user/clip-trimmer/db"
	"github.com/user/clip-trimmer/host"
	"github.com/user/clip-trimmer/mpv"
	"github.com/user/clip-trimmer/tui"
)

const (
	connectTimeout  = 5 * time.Second
	durationTimeout = 5 * time.Second
	pollInterval    = 100 * time.Millisecond
)

// session is one trimming run: a player, the widget and where results go.
type session struct {
	videoPath string
	args      host.Args
	bridge    host.Bridge
	once      bool
	store     bool
	progOpts  []tea.ProgramOption
}

// resolveVideo returns the media reference handed to mpv. URLs pass through
// untouched; local paths are made absolute and must name an existing file.
func resolveVideo(videoPath string) (string, error) {
	if clip.IsRemote(videoPath) {
		return videoPath, nil
	}
	absPath, err := filepath.Abs(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	info, err := os.Stat(absPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("video file not found: %s", absPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to access video file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("path is a directory, not a video file: %s", absPath)
	}
	return absPath, nil
}

// run launches mpv, waits for it to report a duration, then hands the
// terminal to the widget until the user quits.
func (s session) run(ctx context.Context) (int, error) {
	log, closer, err := sessionLogger()
	if err != nil {
		return 0, err
	}
	defer closer.Close()
	log = log.With("video", filepath.Base(s.videoPath))

	process, err := mpv.LaunchMpv(s.videoPath, cfg.MpvSocket)
	if err != nil {
		return 0, fmt.Errorf("failed to launch mpv: %w", err)
	}
	defer func() {
		if process.Process != nil {
			_ = process.Process.Kill()
		}
		_ = process.Wait()
	}()

	client := mpv.NewClient(cfg.MpvSocket)
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	err = mpv.WaitForConnect(connectCtx, client, pollInterval)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to connect to mpv: %w", err)
	}
	defer client.Close()

	durationCtx, cancel := context.WithTimeout(ctx, durationTimeout)
	duration, err := mpv.WaitForDuration(durationCtx, client, pollInterval)
	cancel()
	if err != nil {
		// Crop mode still works on a degenerate 0..0 interval.
		log.Warn("no duration from player", "err", err)
	}
	log.Info("session started", "duration", duration, "socket", client.SocketPath())

	var store *sql.DB
	if s.store {
		store, err = db.Open(cfg.DBPath())
		if err != nil {
			return 0, err
		}
		defer store.Close()
	}

	model, err := tui.Run(tui.Options{
		Player:      client,
		Bridge:      s.bridge,
		Args:        s.args,
		Theme:       themeOverride(s.args),
		Duration:    duration,
		Store:       store,
		VideoPath:   s.videoPath,
		StepSize:    cfg.StepSize,
		DoubleClick: cfg.DoubleClickWindow(),
		Once:        s.once,
		Logger:      log,
	}, s.progOpts...)
	if err != nil {
		return 0, err
	}
	log.Info("session ended", "emitted", model.Emitted())
	return model.Emitted(), nil
}

// themeOverride returns the configured theme when the host sent none.
func themeOverride(args host.Args) *host.Theme {
	if args.Theme != nil {
		return nil
	}
	t := cfg.ThemeOr(args)
	return &t
}

func loggerOrDefault() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
