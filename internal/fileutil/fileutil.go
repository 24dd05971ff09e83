package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// WriteTemp creates a uniquely named file in dir (os.TempDir when empty)
// using an os.CreateTemp pattern such as "prefix_*.ext", writes data, and
// returns the path. The file is removed again if any step fails.
func WriteTemp(dir, pattern string, data []byte) (string, error) {
	file, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := file.Name()

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

// RemoveQuietly deletes path if it exists. Errors are ignored; callers use
// it for best-effort cleanup that must never mask the primary outcome.
func RemoveQuietly(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NewerThan reports whether target exists and its modification time is
// strictly after reference's. A missing target is not an error.
func NewerThan(target, reference string) (bool, error) {
	targetInfo, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	refInfo, err := os.Stat(reference)
	if err != nil {
		return false, err
	}
	return targetInfo.ModTime().After(refInfo.ModTime()), nil
}
