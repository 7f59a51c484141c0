package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/catalogworks/catalog-backend/pkg/config"
	"github.com/google/uuid"
)

// ErrInvalidKey guards against path traversal in stored object keys.
var ErrInvalidKey = errors.New("invalid storage key")

// LocalStore persists uploaded files under a root directory on disk.
type LocalStore struct {
	root       string
	publicPath string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	root := cfg.UploadDir
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(filepath.Join(root, "products"), 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{
		root:       root,
		publicPath: strings.TrimSuffix(cfg.PublicPath, "/"),
	}, nil
}

// Root returns the on-disk directory served at the public path.
func (s *LocalStore) Root() string {
	return s.root
}

// SaveProductImage writes the upload to a staged temp file and renames it into
// place, returning the object key. The rename keeps partially written files
// from ever being visible at their final path.
func (s *LocalStore) SaveProductImage(r io.Reader, ext string) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return "", fmt.Errorf("%w: missing file extension", ErrInvalidKey)
	}

	key := path.Join("products", fmt.Sprintf("%s.%s", uuid.NewString(), ext))
	dest := filepath.Join(s.root, filepath.FromSlash(key))

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("staging upload: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing upload: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalizing upload: %w", err)
	}
	return key, nil
}

// Delete removes a stored object. A missing file is not an error so that
// cleanup after a replaced or failed upload is idempotent.
func (s *LocalStore) Delete(key string) error {
	full, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting object %s: %w", key, err)
	}
	return nil
}

// Exists reports whether the object is present on disk.
func (s *LocalStore) Exists(key string) (bool, error) {
	full, err := s.resolve(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PublicURL maps an object key to the path it is served at.
func (s *LocalStore) PublicURL(key string) string {
	return s.publicPath + "/" + strings.TrimPrefix(key, "/")
}

func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
