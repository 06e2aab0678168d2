// Package media stores diary images, either on local disk or in an S3
// compatible bucket. Both backends use the same key layout, so the stored
// file path of an image does not depend on the backend.
package media

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	// Root is the first segment of every key. The HTTP server mounts the
	// local backend under /media.
	Root = "media"

	DiaryDir     = Root + "/uploads/diary"
	DiaryPrefix  = "diary_"
	MaxImageSize = 10 << 20

	defaultImageExt = ".jpg"
)

var ErrInvalidKey = errors.New("invalid media key")

type Store interface {
	// Put stores exactly size bytes read from body under key.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

// newID is replaced in tests.
var newID = func() string { return uuid.NewString() }

// NewDiaryKey returns a fresh key such as media/uploads/diary/diary_<uuid>.png.
func NewDiaryKey(fileName, contentType string) string {
	return DiaryDir + "/" + DiaryPrefix + newID() + ImageExt(fileName, contentType)
}

// ImageExt prefers the file name's extension and falls back to one derived
// from the content type.
func ImageExt(fileName, contentType string) string {
	if ext := strings.ToLower(path.Ext(fileName)); ext != "" {
		return ext
	}
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return defaultImageExt
	}
}

// relative strips Root from key and rejects anything that could escape it.
func relative(key string) (string, error) {
	rel, ok := strings.CutPrefix(key, Root+"/")
	if !ok || rel == "" || path.Clean(rel) != rel || strings.HasPrefix(rel, "../") || rel == ".." {
		return "", ErrInvalidKey
	}
	return rel, nil
}
