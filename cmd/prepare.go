package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/clip-trimmer/host"
	"github.com/user/clip-trimmer/lanes"
)

var (
	prepareOut          string
	prepareFormat       string
	prepareNoThumbnails bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare <video-file>",
	Short: "Pre-render lanes and write host args",
	Long: `Probe a video with ffprobe, render its waveform and thumbnail lanes with
ffmpeg, and write host args that 'trim --args' accepts. Lanes that fail to
render are left out so the widget falls back to its placeholder pattern.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		absPath, err := resolveVideo(args[0])
		if err != nil {
			return err
		}
		if prepareFormat != "json" && prepareFormat != "yaml" {
			return fmt.Errorf("unknown format %q (want json or yaml)", prepareFormat)
		}

		ctx := cmd.Context()
		log := loggerOrDefault().With("component", "prepare", "video", absPath)
		ext := lanes.NewExtractor(nil)

		hostArgs := host.Args{VideoURL: absPath, Theme: cfg.Theme}

		duration, err := ext.Probe(ctx, absPath)
		if err != nil {
			log.Warn("probe failed, lanes will be synthetic", "err", err)
		} else {
			if samples, err := ext.Waveform(ctx, absPath, lanes.WaveformLength(duration)); err != nil {
				log.Warn("waveform failed", "err", err)
			} else {
				hostArgs.WaveformData = samples
			}

			if !prepareNoThumbnails {
				dir := cfg.ThumbnailDir(absPath)
				refs, err := ext.Thumbnails(ctx, absPath, dir, duration, lanes.ThumbnailCount(duration))
				if err != nil {
					log.Warn("thumbnails failed", "err", err)
				} else {
					hostArgs.Thumbnails = refs
				}
			}
		}
		log.Info("lanes prepared", "duration", duration, "samples", len(hostArgs.WaveformData), "thumbnails", len(hostArgs.Thumbnails))

		out := cmd.OutOrStdout()
		if prepareOut != "" && prepareOut != "-" {
			f, err := os.Create(prepareOut)
			if err != nil {
				return fmt.Errorf("creating %s: %w", prepareOut, err)
			}
			defer f.Close()
			out = f
		}
		return writeArgs(out, hostArgs, prepareFormat)
	},
}

func writeArgs(w io.Writer, a host.Args, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("encoding args: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return fmt.Errorf("encoding args: %w", err)
	}
	return nil
}

func init() {
	prepareCmd.Flags().StringVarP(&prepareOut, "out", "o", "", "output file (default stdout)")
	prepareCmd.Flags().StringVar(&prepareFormat, "format", "json", "output format: json or yaml")
	prepareCmd.Flags().BoolVar(&prepareNoThumbnails, "no-thumbnails", false, "skip thumbnail extraction")
	rootCmd.AddCommand(prepareCmd)
}
