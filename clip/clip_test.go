package clip

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/clip-trimmer/db"
	"github.com/user/clip-trimmer/logging"
)

func TestTrimPaths(t *testing.T) {
	tests := []struct {
		name       string
		video      string
		id         string
		start, end float64
		wantFolder string
		wantFile   string
	}{
		{
			name:       "mp4 under an hour",
			video:      "/videos/match.mp4",
			id:         "3f2a9c1e-0000-4000-8000-000000000000",
			start:      61.7,
			end:        125.2,
			wantFolder: "/videos/match-trims",
			wantFile:   "000101-000205-3f2a9c1e.mp4",
		},
		{
			name:       "uppercase extension past an hour",
			video:      "/v/Final Game.MKV",
			id:         "abcdef12-3456",
			start:      3723,
			end:        3800,
			wantFolder: "/v/Final Game-trims",
			wantFile:   "010203-010320-abcdef12.mkv",
		},
		{
			name:       "no extension",
			video:      "/v/raw",
			id:         "ab",
			start:      0,
			end:        1,
			wantFolder: "/v/raw-trims",
			wantFile:   "000000-000001-ab.mp4",
		},
		{
			name:       "remote source goes under the remote dir",
			video:      "https://cdn.example.com/games/match.webm?token=x",
			id:         "12345678-aaaa",
			start:      5,
			end:        65,
			wantFolder: "/data/trims/match-trims",
			wantFile:   "000005-000105-12345678.webm",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			folder, file := TrimPaths(tt.video, "/data/trims", tt.id, tt.start, tt.end)
			if folder != tt.wantFolder {
				t.Errorf("folder = %q, want %q", folder, tt.wantFolder)
			}
			if file != tt.wantFile {
				t.Errorf("file = %q, want %q", file, tt.wantFile)
			}
		})
	}
}

func TestIsRemote(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"https://example.com/clip.mp4", true},
		{"rtmp://live.example.com/stream", true},
		{"file:///videos/match.mp4", true},
		{"/videos/match.mp4", false},
		{"match.mp4", false},
		{`C:\videos\match.mp4`, false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.ref); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}

func TestCutArgsUsesStreamCopy(t *testing.T) {
	args := CutArgs("/in.mp4", "/out.mp4", 1.5, 9)
	want := []string{"-y", "-hide_banner", "-loglevel", "error", "-ss", "1.500", "-to", "9.000", "-i", "/in.mp4", "-c", "copy", "-avoid_negative_ts", "make_zero", "/out.mp4"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func newTestProcessor(t *testing.T, cut CutFunc) *Processor {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "trims.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return &Processor{DB: database, Logger: logging.Discard(), Cut: cut}
}

func TestRunOnceCompletesTask(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "match.mp4")

	var got []string
	p := newTestProcessor(t, func(ctx context.Context, args []string) ([]byte, error) {
		got = args
		return nil, os.WriteFile(args[len(args)-1], []byte("trimmed"), 0644)
	})

	task, err := db.InsertTrimTask(p.DB, video, 1, 74)
	if err != nil {
		t.Fatal(err)
	}

	worked, err := p.RunOnce(context.Background())
	if err != nil || !worked {
		t.Fatalf("RunOnce = %v, %v; want true, nil", worked, err)
	}
	if len(got) == 0 {
		t.Fatal("ffmpeg was not invoked")
	}

	done, err := db.SelectTrimTaskByID(p.DB, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != db.StatusComplete {
		t.Fatalf("Status = %q (log %q), want complete", done.Status, done.Log)
	}
	wantFolder, wantFile := TrimPaths(video, "", task.UUID, 1, 74)
	if done.OutputPath != filepath.Join(wantFolder, wantFile) {
		t.Errorf("OutputPath = %q", done.OutputPath)
	}
	if done.Filesize != int64(len("trimmed")) {
		t.Errorf("Filesize = %d", done.Filesize)
	}

	worked, err = p.RunOnce(context.Background())
	if err != nil || worked {
		t.Errorf("second RunOnce = %v, %v; want false, nil", worked, err)
	}
}

func TestRunOnceRecordsFailure(t *testing.T) {
	p := newTestProcessor(t, func(ctx context.Context, args []string) ([]byte, error) {
		return []byte("Invalid data found when processing input"), errors.New("exit status 1")
	})

	task, err := db.InsertTrimTask(p.DB, filepath.Join(t.TempDir(), "bad.mp4"), 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.RunOnce(context.Background()); err != nil {
		t.Fatal(err)
	}

	failed, err := db.SelectTrimTaskByID(p.DB, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if failed.Status != db.StatusError {
		t.Errorf("Status = %q, want error", failed.Status)
	}
	if failed.Log != "Invalid data found when processing input" {
		t.Errorf("Log = %q", failed.Log)
	}
}

func TestDrainProcessesQueue(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	p := newTestProcessor(t, func(ctx context.Context, args []string) ([]byte, error) {
		calls++
		return nil, os.WriteFile(args[len(args)-1], nil, 0644)
	})

	for i := 0; i < 3; i++ {
		if _, err := db.InsertTrimTask(p.DB, filepath.Join(dir, "v.mp4"), float64(i*10), float64(i*10+5)); err != nil {
			t.Fatal(err)
		}
	}

	n, err := p.Drain(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || calls != 3 {
		t.Errorf("Drain = %d tasks, %d cuts; want 3, 3", n, calls)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	p := newTestProcessor(t, func(ctx context.Context, args []string) ([]byte, error) {
		return nil, nil
	})
	p.PollInterval = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := p.Start(ctx)
	cancel()
	<-done
}
