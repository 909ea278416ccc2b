// Package storage keeps attachment contents on an afero filesystem.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/frahmantamala/custom-timesheet/internal"
)

const (
	publicDir  = "public"
	privateDir = "private"

	privateURLPrefix = "/private/files"
)

type BlobStore struct {
	fs        afero.Fs
	publicURL string
}

func NewBlobStore(fs afero.Fs, publicURL string) *BlobStore {
	if publicURL == "" {
		publicURL = "/files"
	}
	return &BlobStore{fs: fs, publicURL: strings.TrimRight(publicURL, "/")}
}

// NewFromConfig uses an in-memory filesystem when configured, otherwise a
// directory rooted at cfg.Root.
func NewFromConfig(cfg internal.StorageConfig) (*BlobStore, error) {
	if cfg.InMemory {
		return NewBlobStore(afero.NewMemMapFs(), cfg.PublicURL), nil
	}
	if err := os.MkdirAll(cfg.Root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return NewBlobStore(afero.NewBasePathFs(afero.NewOsFs(), cfg.Root), cfg.PublicURL), nil
}

func (s *BlobStore) Save(_ context.Context, key string, content []byte, private bool) (string, error) {
	dir, prefix := publicDir, s.publicURL
	if private {
		dir, prefix = privateDir, privateURLPrefix
	}
	full := path.Join(dir, path.Clean("/"+key))
	if err := s.fs.MkdirAll(path.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", path.Dir(full), err)
	}
	if err := afero.WriteFile(s.fs, full, content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", full, err)
	}
	return prefix + path.Clean("/"+key), nil
}

func (s *BlobStore) Remove(_ context.Context, url string) error {
	full, err := s.keyFor(url)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", full, err)
	}
	// the per-file directory is empty now
	_ = s.fs.Remove(path.Dir(full))
	return nil
}

func (s *BlobStore) Read(_ context.Context, url string) ([]byte, error) {
	full, err := s.keyFor(url)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(s.fs, full)
}

func (s *BlobStore) Exists(ctx context.Context, url string) (bool, error) {
	full, err := s.keyFor(url)
	if err != nil {
		return false, err
	}
	return afero.Exists(s.fs, full)
}

// PublicHandler serves non-private files under the public URL prefix.
func (s *BlobStore) PublicHandler() http.Handler {
	return http.StripPrefix(s.publicURL, http.FileServer(afero.NewHttpFs(afero.NewBasePathFs(s.fs, publicDir)).Dir("/")))
}

func (s *BlobStore) PublicURL() string {
	return s.publicURL
}

func (s *BlobStore) keyFor(url string) (string, error) {
	switch {
	case strings.HasPrefix(url, privateURLPrefix+"/"):
		return path.Join(privateDir, path.Clean("/"+strings.TrimPrefix(url, privateURLPrefix))), nil
	case strings.HasPrefix(url, s.publicURL+"/"):
		return path.Join(publicDir, path.Clean("/"+strings.TrimPrefix(url, s.publicURL))), nil
	}
	return "", fmt.Errorf("url %q is not managed by this store", url)
}
