package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

const (
	// DefaultSocketPath is the IPC socket used when none is configured.
	DefaultSocketPath = "/tmp/clip-trimmer-mpv.sock"

	dialTimeout = time.Second
	// commandTimeout bounds one request/reply round trip so a wedged player
	// can't stall the widget's polling.
	commandTimeout = 2 * time.Second
)

var (
	// ErrNotConnected is returned when attempting operations on a disconnected client.
	ErrNotConnected = errors.New("mpv: not connected")
	// ErrSocketNotFound is returned when the socket cannot be dialed.
	ErrSocketNotFound = errors.New("mpv: socket not found - is mpv running with --input-ipc-server?")
)

type request struct {
	Command   []any  `json:"command"`
	RequestID uint64 `json:"request_id"`
}

// reply is either a command response or an unsolicited event line.
type reply struct {
	Data      any    `json:"data"`
	RequestID uint64 `json:"request_id"`
	Error     string `json:"error"`
	Event     string `json:"event"`
}

// Client talks to a running mpv over its JSON IPC socket. All methods are
// safe for concurrent use; commands are serialised on the connection.
type Client struct {
	socketPath string

	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	lastID uint64
}

// NewClient returns a client for socketPath, or DefaultSocketPath when empty.
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	return &Client{socketPath: socketPath}
}

// Connect dials the socket. It is a no-op when already connected.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return nil
	}

	conn, err := net.DialTimeout("unix", c.socketPath, dialTimeout)
	if err != nil {
		return fmt.Errorf("%w (%s)", ErrSocketNotFound, c.socketPath)
	}
	c.conn = conn
	c.reader = bufio.NewReader(conn)
	return nil
}

// Close drops the connection. mpv itself keeps running.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn, c.reader = nil, nil
	return err
}

// SocketPath returns the socket path this client dials.
func (c *Client) SocketPath() string {
	return c.socketPath
}

// GetProperty reads an mpv property such as "time-pos" or "pause".
func (c *Client) GetProperty(name string) (any, error) {
	return c.call("get_property", name)
}

// GetTimePos returns the playback position in seconds.
func (c *Client) GetTimePos() (float64, error) {
	return c.floatProperty("time-pos")
}

// GetDuration returns the media duration in seconds.
func (c *Client) GetDuration() (float64, error) {
	return c.floatProperty("duration")
}

// GetPaused reports whether playback is paused.
func (c *Client) GetPaused() (bool, error) {
	v, err := c.GetProperty("pause")
	if err != nil {
		return false, err
	}
	paused, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("mpv: pause is %T, not bool", v)
	}
	return paused, nil
}

// TogglePause flips the pause property.
func (c *Client) TogglePause() error {
	_, err := c.call("cycle", "pause")
	return err
}

// Seek jumps to an absolute position with exact seeking, so the frame on
// screen matches the marker time.
func (c *Client) Seek(seconds float64) error {
	_, err := c.call("seek", seconds, "absolute+exact")
	return err
}

// ShowText overlays text on the video for d.
func (c *Client) ShowText(text string, d time.Duration) error {
	_, err := c.call("show-text", text, d.Milliseconds())
	return err
}

func (c *Client) floatProperty(name string) (float64, error) {
	v, err := c.GetProperty(name)
	if err != nil {
		return 0, err
	}
	// encoding/json decodes every number into float64.
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("mpv: %s is %T, not a number", name, v)
	}
	return f, nil
}

// call writes {"command": [...], "request_id": n} as one line and reads lines
// until the reply carrying n arrives. Events and stale replies are skipped.
func (c *Client) call(command ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	c.lastID++
	id := c.lastID
	line, err := json.Marshal(request{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("mpv: encoding %v: %w", command[0], err)
	}

	if err := c.conn.SetDeadline(time.Now().Add(commandTimeout)); err != nil {
		return nil, fmt.Errorf("mpv: %w", err)
	}
	if _, err := c.conn.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("mpv: sending %v: %w", command[0], err)
	}

	for {
		raw, err := c.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("mpv: reading reply to %v: %w", command[0], err)
		}
		var r reply
		if json.Unmarshal(raw, &r) != nil || r.Event != "" || r.RequestID != id {
			continue
		}
		if r.Error != "" && r.Error != "success" {
			return nil, fmt.Errorf("mpv: %v: %s", command[0], r.Error)
		}
		return r.Data, nil
	}
}
