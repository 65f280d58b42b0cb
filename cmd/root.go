package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/user/clip-trimmer/config"
	"github.com/user/clip-trimmer/deps"
	"github.com/user/clip-trimmer/logging"
)

var (
	cfg    *config.Config
	logger *slog.Logger

	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "clip-trimmer",
	Short: "Pick start and end points of a video from the terminal",
	Long: `clip-trimmer opens a video in mpv and shows a trimming timeline in the
terminal: a thumbnail strip, an audio waveform and two draggable crop markers.
Applying a selection reports {start, end} to the host that launched it and
queues a stream-copy cut of that range.

Features:
  - Drag markers with the mouse or nudge them from the keyboard
  - Talk to a host over stdin/stdout or HTTP
  - Pre-render waveform and thumbnail lanes with ffmpeg
  - Cut applied selections in the background`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.New()
		if err != nil {
			return err
		}
		if logLevelFlag != "" {
			cfg.LogLevel = logLevelFlag
		}
		if logFormatFlag != "" {
			cfg.LogFormat = logFormatFlag
		}
		logger = logging.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		slog.SetDefault(logger)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "clip-trimmer version %s (%s)\n", config.Version, config.GitCommit)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  `Check that the external programs (mpv, ffmpeg, ffprobe) are installed and available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking dependencies...")
		fmt.Fprintln(out)

		missing := 0
		for _, b := range deps.Binaries {
			if err := b.Check(); err != nil {
				fmt.Fprintf(out, "✗ %s: NOT FOUND (%s)\n", b.Name, b.Purpose)
				fmt.Fprintf(out, "  Install from: %s\n", b.InstallURL)
				missing++
				continue
			}
			fmt.Fprintf(out, "✓ %s: OK\n", b.Name)
		}

		fmt.Fprintln(out)
		fmt.Fprintf(out, "Config: data dir %s, task store %s\n", cfg.DataDir, cfg.DBPath())
		if missing > 0 {
			return fmt.Errorf("%d dependencies missing", missing)
		}
		fmt.Fprintln(out, "All dependencies are installed!")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "log format (text, json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

// sessionLogger sends logs to a file in the data directory while the TUI owns
// the terminal. The returned closer must be called when the session ends.
func sessionLogger() (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	path := filepath.Join(cfg.DataDir, "clip-trimmer.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.NewLogger(f, cfg.LogLevel, cfg.LogFormat), f, nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
