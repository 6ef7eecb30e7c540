package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"letluckdecide/enricher/internal/domain"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"
)

// ErrStoreLocked means another run holds the store.
var ErrStoreLocked = errors.New("enrichment store is locked by another run")

type fileRepository struct {
	path string
	lock *flock.Flock
}

// NewFileRepository prepares a JSON file store at path. The parent directory
// is created and an advisory lock is taken for the lifetime of the
// repository; both failures are returned before any network work starts.
func NewFileRepository(path string) (EnrichRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock store: %w", err)
	}
	if !ok {
		return nil, ErrStoreLocked
	}

	return &fileRepository{path: path, lock: lock}, nil
}

func (r *fileRepository) Load(ctx context.Context) (domain.Store, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		log.Infof("No existing store at %s, starting empty", r.path)
		return make(domain.Store), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	store := make(domain.Store)
	if len(data) == 0 {
		return store, nil
	}
	if err := json.Unmarshal(data, &store); err != nil {
		return nil, fmt.Errorf("failed to parse store %s: %w", r.path, err)
	}

	log.Infof("Loaded existing %s (%d entries)", r.path, len(store))
	return store, nil
}

// Save replaces the store file through a temp file and rename so readers see
// either the old or the new content.
func (r *fileRepository) Save(ctx context.Context, store domain.Store) error {
	data, err := encodeIndented(store)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set store permissions: %w", err)
	}

	if err := os.Rename(tmpPath, r.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace store: %w", err)
	}
	return nil
}

func (r *fileRepository) Location() string {
	return r.path
}

func (r *fileRepository) Close() error {
	return r.lock.Unlock()
}
