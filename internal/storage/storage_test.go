package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDetectImage(t *testing.T) {
	ct, ext, err := DetectImage(pngHeader)
	require.NoError(t, err)
	require.Equal(t, "image/png", ct)
	require.Equal(t, ".png", ext)

	_, _, err = DetectImage([]byte("GIF89a......"))
	require.NoError(t, err)

	_, _, err = DetectImage([]byte("%PDF-1.4"))
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestLocalUploader(t *testing.T) {
	dir := t.TempDir()
	u := &LocalUploader{Dir: dir, PublicPath: "/uploads/"}

	key := NewKey("listings", ".png")
	require.True(t, strings.HasPrefix(key, "listings/"))

	url, err := u.Save(context.Background(), key, "image/png", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	require.Equal(t, "/uploads/"+key, url)

	got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	require.Equal(t, pngHeader, got)
}

func TestS3UploaderURL(t *testing.T) {
	u := NewS3Uploader(S3Config{Bucket: "er", Region: "eu-west-1", AccessKey: "a", SecretKey: "b"})
	require.Equal(t, "https://er.s3.eu-west-1.amazonaws.com", u.baseURL)

	u = NewS3Uploader(S3Config{Bucket: "er", Region: "us-east-1", Endpoint: "http://minio:9000", PublicBaseURL: "https://cdn.example.com/"})
	require.Equal(t, "https://cdn.example.com", u.baseURL)
}
