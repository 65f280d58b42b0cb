package mpv

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/user/clip-trimmer/deps"
)

// LaunchMpv starts mpv paused on videoPath with the IPC socket enabled.
// It checks that mpv is installed first and returns a deps.DependencyError if not.
// The returned *exec.Cmd can be used to wait for or kill the player.
func LaunchMpv(videoPath, socketPath string) (*exec.Cmd, error) {
	if err := deps.CheckMpv(); err != nil {
		return nil, err
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	// A stale socket from a crashed session would make Connect hit a dead endpoint.
	_ = os.Remove(socketPath)

	cmd := exec.Command("mpv",
		"--input-ipc-server="+socketPath,
		"--pause",
		"--keep-open=yes",
		"--force-window=yes",
		videoPath,
	)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd, nil
}

// WaitForConnect retries Connect every interval until it succeeds or ctx ends.
func WaitForConnect(ctx context.Context, c *Client, interval time.Duration) error {
	var err error
	for {
		if err = c.Connect(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(interval):
		}
	}
}

// WaitForDuration polls until mpv reports a positive duration or ctx ends.
// Streams without a known length never report one; callers fall back to 0.
func WaitForDuration(ctx context.Context, c *Client, interval time.Duration) (float64, error) {
	for {
		d, err := c.GetDuration()
		if err == nil && d > 0 {
			return d, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(interval):
		}
	}
}
