package repository

import (
	"context"
	"errors"
	"fmt"

	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/storage"
)

// FileStore keeps each key as <key>.json under a local directory.
type FileStore struct {
	storage *storage.LocalStorage
}

// NewFileStore wraps local storage as a key/value store.
func NewFileStore(s *storage.LocalStorage) *FileStore {
	return &FileStore{storage: s}
}

func (s *FileStore) filename(key string) string {
	return key + ".json"
}

// Get returns the bytes stored under key or ErrStoreMiss.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.storage.Read(s.filename(key))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, appErrors.ErrStoreMiss
		}
		return nil, fmt.Errorf("file store get %s: %w", key, err)
	}
	return data, nil
}

// Set replaces the bytes stored under key.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.storage.Save(s.filename(key), value); err != nil {
		return fmt.Errorf("file store set %s: %w", key, err)
	}
	return nil
}

// Ping reports whether the store is usable.
func (s *FileStore) Ping(context.Context) error {
	if s.storage == nil {
		return fmt.Errorf("file store not configured")
	}
	return nil
}

// Name identifies the driver.
func (s *FileStore) Name() string { return "file" }

// Close is a no-op for files.
func (s *FileStore) Close() error { return nil }
