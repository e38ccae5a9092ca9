// Package storage uploads meal images and turns stored paths into links.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"regexp"
	"strings"

	"meal-delivery-api/config"

	"github.com/google/uuid"
)

var ErrUpload = errors.New("object upload failed")

// ObjectStore saves a blob under key and returns the path to persist.
// PublicURL turns a persisted path back into a display link.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	PublicURL(storedPath string) string
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ImageKey builds meals/<vendor>_<random>_<filename>. The random segment
// keeps two uploads of the same file name from replacing each other.
func ImageKey(vendorID, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.Trim(unsafeName.ReplaceAllString(name, "_"), "._")
	if name == "" {
		name = "image"
	}
	vendor := unsafeName.ReplaceAllString(vendorID, "_")
	return "meals/" + vendor + "_" + uuid.NewString()[:8] + "_" + name
}

// New returns the backend selected by cfg.StorageBackend
func New(cfg config.Config) (ObjectStore, error) {
	switch cfg.StorageBackend {
	case config.StorageSupabase:
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.StorageBucket, nil), nil
	default:
		return NewLocalStore(cfg.LocalStorageDir, cfg.PublicBaseURL)
	}
}
