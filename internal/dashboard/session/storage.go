// Copyright (c) 2026 TrustVoice. All rights reserved.

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStorage is the durable backing slot for the bearer credential.
//
// Implementations hold exactly one value. Load on an empty slot returns
// ("", nil); it is not an error to have never logged in.
type TokenStorage interface {
	// Save overwrites the stored token.
	Save(token string) error

	// Load returns the stored token, or "" when the slot is empty.
	Load() (string, error)

	// Clear empties the slot. Clearing an empty slot is a no-op.
	Clear() error
}

// # File Storage

// FileStorage persists the token in a single local file, created with
// owner-only permissions. This is what the CLI and bot front-ends use.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage writing to the given path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Save writes the token to disk, creating parent directories as needed.
func (storage *FileStorage) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(storage.path), 0o700); err != nil {
		return fmt.Errorf("token_storage_mkdir_failed: %w", err)
	}

	if err := os.WriteFile(storage.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("token_storage_write_failed: %w", err)
	}

	return nil
}

// Load reads the token from disk. A missing file is an empty slot, not an error.
func (storage *FileStorage) Load() (string, error) {
	data, err := os.ReadFile(storage.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("token_storage_read_failed: %w", err)
	}

	return strings.TrimSpace(string(data)), nil
}

// Clear removes the token file.
func (storage *FileStorage) Clear() error {
	if err := os.Remove(storage.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("token_storage_clear_failed: %w", err)
	}
	return nil
}

// # Memory Storage

// MemoryStorage is an in-process TokenStorage for tests and ephemeral sessions.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStorage creates an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (storage *MemoryStorage) Save(token string) error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.token = token
	return nil
}

func (storage *MemoryStorage) Load() (string, error) {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	return storage.token, nil
}

func (storage *MemoryStorage) Clear() error {
	storage.mu.Lock()
	defer storage.mu.Unlock()
	storage.token = ""
	return nil
}
