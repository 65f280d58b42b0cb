package clip

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// IsRemote reports whether ref is a URL such as https://host/clip.mp4 rather
// than a local path. Single-letter schemes are Windows drive letters.
func IsRemote(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && len(u.Scheme) > 1
}

// TrimPaths computes the output folder and filename for a trim task.
// Folder sits next to a local source video: <videoDir>/<videoName>-trims.
// Remote sources have no directory of their own, so their folder is
// <remoteDir>/<videoName>-trims.
// Filename format: {HHMMSS}-{HHMMSS}-{id8}.{ext}, keeping the source container.
func TrimPaths(videoPath, remoteDir, taskUUID string, start, end float64) (folder, filename string) {
	dir, base := filepath.Dir(videoPath), filepath.Base(videoPath)
	if u, err := url.Parse(videoPath); err == nil && IsRemote(videoPath) {
		dir, base = remoteDir, path.Base(u.Path)
		if base == "/" || base == "." {
			base = u.Host
		}
	}
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if ext == "" {
		ext = ".mp4"
	}

	folder = filepath.Join(dir, name+"-trims")

	id := strings.ReplaceAll(taskUUID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}

	filename = fmt.Sprintf("%s-%s-%s%s", compactTimestamp(start), compactTimestamp(end), id, strings.ToLower(ext))
	return folder, filename
}

// compactTimestamp formats seconds as HHMMSS, truncating fractions.
func compactTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	totalSecs := int(seconds)
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	return fmt.Sprintf("%02d%02d%02d", hours, minutes, secs)
}
