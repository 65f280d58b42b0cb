package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/clip-trimmer/host"
)

var (
	trimArgsFile string
	trimStdio    bool
	trimOnce     bool
	trimNoStore  bool
)

var trimCmd = &cobra.Command{
	Use:   "trim [video-file]",
	Short: "Open the trimming widget on a video",
	Long: `Open a video in mpv and the trimming widget in the terminal.

Lanes and theme come from --args (a JSON or YAML host args file) or, with
--stdio, from a single JSON line on stdin. With --stdio the applied selection
is written to stdout as one JSON line and the widget draws on stderr.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		s := session{once: trimOnce, store: !trimNoStore}

		switch {
		case trimStdio:
			bridge := host.NewStdioBridge(os.Stdin, os.Stdout)
			hostArgs, err := bridge.Args(ctx)
			if err != nil {
				return fmt.Errorf("reading host args: %w", err)
			}
			s.args = hostArgs
			s.bridge = bridge
			s.progOpts = []tea.ProgramOption{tea.WithOutput(os.Stderr), tea.WithInputTTY()}
		case trimArgsFile != "":
			hostArgs, err := readArgsFile(trimArgsFile)
			if err != nil {
				return err
			}
			s.args = hostArgs
		}

		videoPath := s.args.VideoURL
		if len(args) == 1 {
			videoPath = args[0]
		}
		if videoPath == "" {
			return fmt.Errorf("no video: pass a file or set video_url in the host args")
		}
		absPath, err := resolveVideo(videoPath)
		if err != nil {
			return err
		}
		s.videoPath = absPath
		s.args.VideoURL = absPath

		emitted, err := s.run(ctx)
		if err != nil {
			return err
		}
		if !trimStdio {
			fmt.Fprintf(cmd.OutOrStdout(), "%d selection(s) applied\n", emitted)
		}
		return nil
	},
}

// readArgsFile loads host args from a .json file, or YAML for anything else.
func readArgsFile(path string) (host.Args, error) {
	var a host.Args
	data, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("reading args file: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &a)
	} else {
		err = yaml.Unmarshal(data, &a)
	}
	if err != nil {
		return a, fmt.Errorf("parsing args file %s: %w", path, err)
	}
	return a, nil
}

func init() {
	trimCmd.Flags().StringVar(&trimArgsFile, "args", "", "host args file (JSON or YAML) with lanes and theme")
	trimCmd.Flags().BoolVar(&trimStdio, "stdio", false, "read host args from stdin and write the result to stdout")
	trimCmd.Flags().BoolVar(&trimOnce, "once", false, "quit after the first applied selection")
	trimCmd.Flags().BoolVar(&trimNoStore, "no-store", false, "don't queue applied selections for cutting")
	trimCmd.MarkFlagsMutuallyExclusive("args", "stdio")
	rootCmd.AddCommand(trimCmd)
}
