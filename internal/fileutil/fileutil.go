package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// SizeAtLeast reports whether path exists as a regular file of at least min
// bytes. Used to reject truncated downloads and empty tool output.
func SizeAtLeast(path string, min int64) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Size() >= min
}

// RemoveGlob deletes every file matching pattern, ignoring individual removal
// failures. Returns the number of files removed.
func RemoveGlob(pattern string) int {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0
	}
	removed := 0
	for _, match := range matches {
		if err := os.Remove(match); err == nil {
			removed++
		}
	}
	return removed
}

// FormatSize renders a byte count in a human-readable form ("1.5 MB").
func FormatSize(size int64) string {
	if size <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(size)
	idx := 0
	for value >= 1024 && idx < len(units)-1 {
		value /= 1024
		idx++
	}
	if idx == 0 {
		return fmt.Sprintf("%d B", size)
	}
	return fmt.Sprintf("%.1f %s", value, units[idx])
}
