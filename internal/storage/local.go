package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes previews under a base directory and serves them from a
// static base URL. Used in development and in tests.
type LocalStore struct {
	BasePath string
	BaseURL  string
}

// NewLocalStore constructs a disk-backed store.
func NewLocalStore(basePath, baseURL string) *LocalStore {
	return &LocalStore{BasePath: basePath, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Put applies the acceptance contract and writes the object to disk.
func (s *LocalStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := accept(obj); err != nil {
		return "", err
	}
	key := strings.TrimLeft(filepath.ToSlash(obj.Key), "/")
	path := filepath.Join(s.BasePath, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("storage: create directory: %w", err)
	}
	if err := os.WriteFile(path, obj.Data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return s.BaseURL + "/" + key, nil
}
