// internal/app/system/imagestore/imagestore.go

// Package imagestore is the boundary to the image host. Handlers hand it
// an uploaded file and get back a public URL; everything else about the
// hosting backend stays behind the Store interface.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnsupportedType is returned when the uploaded file is not a
// .png/.jpg/.jpeg image.
var ErrUnsupportedType = errors.New("only .png, .jpg and .jpeg format allowed")

// Store persists one uploaded image and returns its public URL.
type Store interface {
	Save(ctx context.Context, originalName string, r io.Reader) (url string, err error)
}

// LocalStore writes images to a directory on disk served by the app's
// file server. Filenames are random so uploads can never collide or be
// guessed.
type LocalStore struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

// NewLocalStore creates the upload directory if needed and returns a
// Store rooted there. baseURL is the public prefix the files are served
// under (e.g. "/files/images").
func NewLocalStore(dir, baseURL string, logger *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger,
	}, nil
}

// Save validates the extension, writes the file under a fresh UUID name,
// and returns the public URL. A partially-written file is removed on
// failure; removal problems are only logged.
func (s *LocalStore) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".png", ".jpg", ".jpeg":
	default:
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			s.log.Warn("cleanup of failed upload failed",
				zap.String("path", path), zap.Error(rmErr))
		}
		return "", fmt.Errorf("write image file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image file: %w", err)
	}

	return s.baseURL + "/" + name, nil
}
