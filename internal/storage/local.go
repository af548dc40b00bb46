package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalUploader writes files under Dir, which the server exposes at PublicPath.
type LocalUploader struct {
	Dir        string
	PublicPath string
}

func (u *LocalUploader) Save(_ context.Context, key, _ string, r io.Reader, _ int64) (string, error) {
	dst := filepath.Join(u.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return strings.TrimRight(u.PublicPath, "/") + "/" + key, nil
}
