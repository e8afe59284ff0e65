// Package filex holds small filesystem helpers for the client.
package filex

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// MaxMediaSize caps photos and videos sent to the AI.
const MaxMediaSize = 20 << 20

var ErrTooLarge = errors.New("file too large")

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o770); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadMedia loads a photo or video and sniffs its content type.
func ReadMedia(path string) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if fi.Size() > MaxMediaSize {
		return nil, "", fmt.Errorf("%w: %s is %d bytes", ErrTooLarge, path, fi.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
}
