package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/user/clip-trimmer/host"
)

var (
	serveAddr    string
	serveLinger  time.Duration
	serveNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a trimming session driven over HTTP",
	Long: `Listen for a host over HTTP. The host PUTs its args to /args (video_url is
required), the widget opens on that video, and the applied selection is served
from GET /result. GET /healthz reports liveness.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		addr := cfg.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		log := loggerOrDefault().With("component", "serve")
		bridge := host.NewHTTPBridge(log)
		srv := &http.Server{
			Handler:           bridge.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		serveErr := make(chan error, 1)
		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		log.Info("waiting for host args", "addr", ln.Addr().String())
		hostArgs, err := waitArgs(ctx, bridge, serveErr)
		if err != nil {
			return err
		}

		absPath, err := resolveVideo(hostArgs.VideoURL)
		if err != nil {
			return err
		}
		hostArgs.VideoURL = absPath

		s := session{
			videoPath: absPath,
			args:      hostArgs,
			bridge:    bridge,
			once:      true,
			store:     !serveNoStore,
		}
		emitted, err := s.run(ctx)
		if err != nil {
			return err
		}

		if emitted > 0 && serveLinger > 0 {
			// Give a host that polls with ?wait=false time to collect the result.
			log.Info("result ready", "linger", serveLinger)
			select {
			case <-ctx.Done():
			case <-time.After(serveLinger):
			}
		}
		return nil
	},
}

func waitArgs(ctx context.Context, bridge *host.HTTPBridge, serveErr <-chan error) (host.Args, error) {
	argsCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err, ok := <-serveErr; ok && err != nil {
			cancel()
		}
	}()
	a, err := bridge.Args(argsCtx)
	if err != nil {
		return a, fmt.Errorf("waiting for host args: %w", err)
	}
	return a, nil
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().DurationVar(&serveLinger, "linger", 5*time.Second, "how long to keep serving /result after the session ends")
	serveCmd.Flags().BoolVar(&serveNoStore, "no-store", false, "don't queue applied selections for cutting")
	rootCmd.AddCommand(serveCmd)
}
