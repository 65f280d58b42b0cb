package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/user/clip-trimmer/clip"
	"github.com/user/clip-trimmer/db"
	"github.com/user/clip-trimmer/pkg/timeutil"
)

var (
	tasksWatch       bool
	tasksClearStatus string
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Manage queued trims",
	Long:  `List, queue, cut, and clear the trims queued by applied selections.`,
}

var tasksListCmd = &cobra.Command{
	Use:   "list [video-file]",
	Short: "List queued trims",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		videoPath := ""
		if len(args) == 1 {
			if videoPath, err = filepath.Abs(args[0]); err != nil {
				return fmt.Errorf("failed to resolve path: %w", err)
			}
		}

		tasks, err := db.SelectTrimTasks(database, videoPath)
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No trims queued.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tStart\tEnd\tDuration\tStatus\tVideo\tOutput")
		fmt.Fprintln(w, "--\t-----\t---\t--------\t------\t-----\t------")
		for _, t := range tasks {
			output := t.OutputPath
			if t.Status == db.StatusError {
				output = firstLine(t.Log)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				t.UUID[:8],
				timeutil.FormatTenths(t.Start),
				timeutil.FormatTenths(t.End),
				timeutil.FormatTenths(t.End-t.Start),
				t.Status,
				filepath.Base(t.VideoPath),
				output,
			)
		}
		w.Flush()
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d trim(s)\n", len(tasks))
		return nil
	},
}

var tasksAddCmd = &cobra.Command{
	Use:   "add <video-file> <start> <end>",
	Short: "Queue a trim without opening the widget",
	Long: `Queue a trim of video-file between start and end. Times accept H:MM:SS,
MM:SS or plain seconds, with an optional fraction on the last part.`,
	Example: `  clip-trimmer tasks add match.mp4 1:02:03 1:02:45.5
  clip-trimmer tasks add match.mp4 90 120`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := resolveVideo(args[0])
		if err != nil {
			return err
		}
		start, err := timeutil.ParseTimeToSeconds(args[1])
		if err != nil {
			return fmt.Errorf("invalid start: %w", err)
		}
		end, err := timeutil.ParseTimeToSeconds(args[2])
		if err != nil {
			return fmt.Errorf("invalid end: %w", err)
		}

		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		task, err := db.InsertTrimTask(database, absPath, start, end)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Queued trim %s (%s - %s)\n",
			task.UUID[:8], timeutil.FormatTenths(start), timeutil.FormatTenths(end))
		return nil
	},
}

var tasksRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Cut queued trims with ffmpeg",
	Long: `Cut every pending trim with ffmpeg stream copy and exit. With --watch the
worker keeps polling for new trims until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		log := loggerOrDefault().With("component", "worker")
		if n, err := db.ResetStaleTasks(database); err != nil {
			return err
		} else if n > 0 {
			log.Info("requeued interrupted trims", "count", n)
		}

		p := &clip.Processor{DB: database, Logger: log, RemoteDir: filepath.Join(cfg.DataDir, "trims")}
		if tasksWatch {
			log.Info("watching for trims")
			<-p.Start(ctx)
			return nil
		}

		n, err := p.Drain(ctx)
		if err != nil && ctx.Err() == nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Processed %d trim(s)\n", n)
		return nil
	},
}

var tasksClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove finished trims from the queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		switch tasksClearStatus {
		case db.StatusPending, db.StatusProcessing, db.StatusComplete, db.StatusError:
		default:
			return fmt.Errorf("unknown status %q", tasksClearStatus)
		}

		database, err := db.Open(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer database.Close()

		n, err := db.DeleteTrimTasks(database, tasksClearStatus)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s trim(s)\n", n, tasksClearStatus)
		return nil
	},
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}

func init() {
	tasksRunCmd.Flags().BoolVar(&tasksWatch, "watch", false, "keep polling for new trims")
	tasksClearCmd.Flags().StringVar(&tasksClearStatus, "status", db.StatusComplete, "status to clear (pending, processing, complete, error)")

	tasksCmd.AddCommand(tasksListCmd)
	tasksCmd.AddCommand(tasksAddCmd)
	tasksCmd.AddCommand(tasksRunCmd)
	tasksCmd.AddCommand(tasksClearCmd)
	rootCmd.AddCommand(tasksCmd)
}
