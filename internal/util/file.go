package util

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// EnsureParentDir creates the parent directory of the given path if it
// does not exist yet.
func EnsureParentDir(path string) error {
	parentDir := filepath.Dir(path)
	_, err := os.Stat(parentDir)
	if errors.Is(err, os.ErrNotExist) {
		return os.MkdirAll(parentDir, 0755)
	}
	return err
}

// WriteStringToFileAtomic writes the given content to the given path,
// either fully or not at all.
func WriteStringToFileAtomic(content string, path string) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}
	reader := strings.NewReader(content)
	return atomic.WriteFile(path, reader)
}
