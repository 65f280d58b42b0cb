package deps

import (
	"errors"
	"os/exec"
	"testing"
)

func TestCheckAll(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(name string) (string, error) {
		if name == "mpv" {
			return "/usr/bin/mpv", nil
		}
		return "", exec.ErrNotFound
	}

	if err := CheckMpv(); err != nil {
		t.Fatalf("CheckMpv: %v", err)
	}
	errs := CheckAll()
	if len(errs) != 2 {
		t.Fatalf("CheckAll returned %d errors, want 2", len(errs))
	}
	var depErr *DependencyError
	if !errors.As(errs[0], &depErr) || depErr.Name != "ffmpeg" {
		t.Errorf("first error = %v", errs[0])
	}
	if depErr.InstallURL != FfmpegInstallURL {
		t.Errorf("InstallURL = %q", depErr.InstallURL)
	}
}
