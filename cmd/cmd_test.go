package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/clip-trimmer/host"
	"github.com/user/clip-trimmer/logging"
)

func TestReadArgsFile_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "args.json")
	jsonBody := `{"video_url": "match.mp4", "height": 6, "theme": {"base": "dark", "primaryColor": "#00FF00"}}`
	if err := os.WriteFile(jsonPath, []byte(jsonBody), 0o644); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "args.yaml")
	yamlBody := "video_url: match.mp4\nheight: 6\ntheme:\n  base: dark\n  primary_color: \"#00FF00\"\n"
	if err := os.WriteFile(yamlPath, []byte(yamlBody), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, yamlPath} {
		a, err := readArgsFile(path)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", path, err)
		}
		if a.VideoURL != "match.mp4" || a.Height != 6 {
			t.Errorf("%s: got %+v", path, a)
		}
		if a.Theme == nil || a.Theme.Base != "dark" || a.Theme.PrimaryColor != "#00FF00" {
			t.Errorf("%s: theme = %+v", path, a.Theme)
		}
	}
}

func TestReadArgsFile_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := readArgsFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readArgsFile(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestWriteArgs_ReadableByTrim(t *testing.T) {
	a := host.Args{
		VideoURL:     "/videos/match.mp4",
		WaveformData: []float64{0, 0.5, 1},
		Thumbnails:   []string{"a.jpg", "b.jpg"},
	}

	for _, format := range []string{"json", "yaml"} {
		var buf bytes.Buffer
		if err := writeArgs(&buf, a, format); err != nil {
			t.Fatalf("%s: unexpected error: %v", format, err)
		}
		path := filepath.Join(t.TempDir(), "args."+format)
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			t.Fatal(err)
		}
		got, err := readArgsFile(path)
		if err != nil {
			t.Fatalf("%s: read back: %v", format, err)
		}
		if got.VideoURL != a.VideoURL || len(got.WaveformData) != 3 || len(got.Thumbnails) != 2 {
			t.Errorf("%s: got %+v", format, got)
		}
	}
}

func TestResolveVideo(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "match.mp4")
	if err := os.WriteFile(video, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := resolveVideo(video)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != video {
		t.Errorf("resolveVideo = %q, want %q", got, video)
	}

	if _, err := resolveVideo(filepath.Join(dir, "nope.mp4")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing file error = %v", err)
	}
	if _, err := resolveVideo(dir); err == nil || !strings.Contains(err.Error(), "directory") {
		t.Errorf("directory error = %v", err)
	}
	for _, ref := range []string{
		"https://example.com/clip.mp4",
		"http://10.0.0.2:8501/media/abc.mp4?x=1",
		"rtmp://live.example.com/stream",
	} {
		got, err := resolveVideo(ref)
		if err != nil || got != ref {
			t.Errorf("resolveVideo(%q) = %q, %v, want it unchanged", ref, got, err)
		}
	}
}

func TestThemeOverride(t *testing.T) {
	if got := themeOverride(host.Args{}); got != nil {
		t.Errorf("themeOverride without theme = %+v, want nil", got)
	}
	got := themeOverride(host.Args{Theme: &host.Theme{Base: "dark"}})
	if got == nil || got.Base != "dark" || got.PrimaryColor == "" {
		t.Errorf("themeOverride = %+v, want dark base with defaults filled", got)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"single", "single"},
		{"first\nsecond", "first"},
		{"\nleading", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWaitArgs_Delivered(t *testing.T) {
	bridge := host.NewHTTPBridge(logging.Discard())
	srv := httptest.NewServer(bridge.Handler())
	defer srv.Close()

	go func() {
		req, _ := http.NewRequest(http.MethodPut, srv.URL+"/args", strings.NewReader(`{"video_url":"match.mp4"}`))
		req.Header.Set("Content-Type", "application/json")
		if resp, err := http.DefaultClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a, err := waitArgs(ctx, bridge, make(chan error))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.VideoURL != "match.mp4" {
		t.Errorf("VideoURL = %q", a.VideoURL)
	}
}

func TestWaitArgs_ServerFailure(t *testing.T) {
	bridge := host.NewHTTPBridge(logging.Discard())
	serveErr := make(chan error, 1)
	serveErr <- errors.New("listener closed")
	close(serveErr)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := waitArgs(ctx, bridge, serveErr)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
