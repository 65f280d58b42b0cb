package mpv

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeMpv answers IPC requests on a unix socket. Each request is passed to
// handle, which returns the data and error string to reply with.
type fakeMpv struct {
	path     string
	ln       net.Listener
	requests chan []interface{}
}

func newFakeMpv(t *testing.T, handle func(cmd []interface{}) (interface{}, string)) *fakeMpv {
	t.Helper()
	dir, err := os.MkdirTemp("", "mpv")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	path := filepath.Join(dir, "s.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Skipf("unix sockets unavailable: %v", err)
	}
	f := &fakeMpv{path: path, ln: ln, requests: make(chan []interface{}, 16)}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadBytes('\n')
			if err != nil {
				return
			}
			var req request
			if err := json.Unmarshal(line, &req); err != nil {
				return
			}
			f.requests <- req.Command
			// An event line first, to check the client skips it.
			conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))
			data, errStr := handle(req.Command)
			if errStr == "" {
				errStr = "success"
			}
			resp, _ := json.Marshal(map[string]interface{}{
				"data":       data,
				"request_id": req.RequestID,
				"error":      errStr,
			})
			conn.Write(append(resp, '\n'))
		}
	}()
	return f
}

func TestClient_NotConnected(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing.sock"))
	if _, err := c.GetTimePos(); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
	if err := c.Connect(); !errors.Is(err, ErrSocketNotFound) {
		t.Fatalf("Connect err = %v, want ErrSocketNotFound", err)
	}
}

func TestClient_GetDurationAndSeek(t *testing.T) {
	f := newFakeMpv(t, func(cmd []interface{}) (interface{}, string) {
		if cmd[0] == "get_property" && cmd[1] == "duration" {
			return 120.5, ""
		}
		return nil, ""
	})
	c := NewClient(f.path)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	d, err := c.GetDuration()
	if err != nil || d != 120.5 {
		t.Fatalf("GetDuration() = %v, %v", d, err)
	}
	<-f.requests

	if err := c.Seek(42.25); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	cmd := <-f.requests
	if len(cmd) != 3 || cmd[0] != "seek" || cmd[1] != 42.25 || cmd[2] != "absolute+exact" {
		t.Errorf("seek command = %v", cmd)
	}
}

func TestClient_ErrorReply(t *testing.T) {
	f := newFakeMpv(t, func(cmd []interface{}) (interface{}, string) {
		return nil, "property unavailable"
	})
	c := NewClient(f.path)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()
	if _, err := c.GetTimePos(); err == nil {
		t.Fatal("expected error reply to surface")
	}
}

func TestWaitForConnect_Timeout(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "never.sock"))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := WaitForConnect(ctx, c, 5*time.Millisecond); err == nil {
		t.Fatal("expected error when socket never appears")
	}
}

func TestClient_NonNumericProperty(t *testing.T) {
	f := newFakeMpv(t, func(cmd []interface{}) (interface{}, string) {
		return "later", ""
	})
	c := NewClient(f.path)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()
	if _, err := c.GetDuration(); err == nil {
		t.Fatal("expected error for a string duration")
	}
}

func TestClient_ShowText(t *testing.T) {
	f := newFakeMpv(t, func(cmd []interface{}) (interface{}, string) {
		return nil, ""
	})
	c := NewClient(f.path)
	if err := c.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	if err := c.ShowText("queued", 1500*time.Millisecond); err != nil {
		t.Fatalf("ShowText: %v", err)
	}
	cmd := <-f.requests
	if len(cmd) != 3 || cmd[0] != "show-text" || cmd[1] != "queued" || cmd[2] != float64(1500) {
		t.Errorf("show-text command = %v", cmd)
	}
}
