// Package storage saves uploaded images and returns their public URL.
package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const MaxImageSize = 5 * 1024 * 1024

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

type Uploader interface {
	Save(ctx context.Context, key string, contentType string, r io.Reader, size int64) (string, error)
}

// ErrInvalidImage is returned for content that is not a jpeg, png or gif.
var ErrInvalidImage = errors.New("only JPEG, PNG and GIF images are allowed")

// DetectImage sniffs the first bytes of an upload and returns its content
// type and canonical extension.
func DetectImage(head []byte) (string, string, error) {
	ct := http.DetectContentType(head)
	ext, ok := allowedTypes[ct]
	if !ok {
		return "", "", ErrInvalidImage
	}
	return ct, ext, nil
}

// NewKey builds a random object name under prefix.
func NewKey(prefix, ext string) string {
	prefix = strings.Trim(prefix, "/")
	name := uuid.New().String() + ext
	if prefix == "" {
		return name
	}
	return filepath.ToSlash(filepath.Join(prefix, name))
}
