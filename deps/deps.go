package deps

import (
	"fmt"
	"os/exec"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// DependencyError contains information about a missing dependency
type DependencyError struct {
	Name       string
	InstallURL string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Binary describes an external program the tool shells out to.
type Binary struct {
	Name       string
	InstallURL string
	// Purpose is shown by the doctor command.
	Purpose string
}

// Binaries lists every external program, in the order doctor reports them.
var Binaries = []Binary{
	{Name: "mpv", InstallURL: MpvInstallURL, Purpose: "video playback"},
	{Name: "ffmpeg", InstallURL: FfmpegInstallURL, Purpose: "lane rendering and cutting"},
	{Name: "ffprobe", InstallURL: FfmpegInstallURL, Purpose: "duration probing"},
}

// Check returns a *DependencyError if b is not in PATH.
func (b Binary) Check() error {
	if _, err := lookPath(b.Name); err != nil {
		return &DependencyError{Name: b.Name, InstallURL: b.InstallURL}
	}
	return nil
}

// CheckMpv checks if mpv is installed and available in PATH
func CheckMpv() error {
	return Binaries[0].Check()
}

// CheckFfmpeg checks if ffmpeg is installed and available in PATH
func CheckFfmpeg() error {
	return Binaries[1].Check()
}

// CheckFfprobe checks if ffprobe is installed and available in PATH
func CheckFfprobe() error {
	return Binaries[2].Check()
}

// CheckAll checks all dependencies and returns a slice of errors for missing ones
func CheckAll() []error {
	var errs []error
	for _, b := range Binaries {
		if err := b.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
