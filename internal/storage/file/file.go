// Package file persists the account-store state as a single JSON record on
// the local filesystem, the durable-storage analogue of the browser's
// localStorage slot.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/athleteiq/keyless/internal/model"
)

var _ model.StateStorage = (*Storage)(nil)

// Storage reads and writes one state file. Writes go through a temp file and
// rename so a crash mid-write never leaves a truncated record; the file is
// 0600 because it holds ephemeral private keys.
type Storage struct {
	path string
}

// New creates a Storage rooted at the given file path.
func New(path string) *Storage {
	return &Storage{path: path}
}

// Load returns the persisted record, or model.ErrNotFound when none exists.
func (s *Storage) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return data, nil
}

// Save atomically replaces the persisted record.
func (s *Storage) Save(_ context.Context, data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to restrict state file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
