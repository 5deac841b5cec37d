package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const defaultFileName = "careerlaunch/tokens.json"

// FileStore implements Store backed by a single JSON file. Both token fields
// live in one document, so Set and Clear are atomic over the pair: the file is
// written to a temp name and renamed into place, and Clear removes the whole
// file. The store survives process restarts but is local to the user profile.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed token store at path. If path is empty,
// the store lives under the user config directory.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Join(ErrStorePath, err)
		}
		path = filepath.Join(dir, defaultFileName)
	}
	return &FileStore{path: path}, nil
}

var _ Store = (*FileStore)(nil)

// Set replaces the stored token pair.
func (f *FileStore) Set(token Token) error {
	if !token.Valid() {
		return ErrEmptyAccessToken
	}

	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("tokenstore: encode token: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return writeFileAtomic(f.path, data, 0o600)
}

// Get returns the stored token pair and whether one is present. A missing or
// unreadable file reads as "no token", which forces re-authentication rather
// than failing the caller.
func (f *FileStore) Get() (Token, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		return Token{}, false
	}

	var token Token
	if err := json.Unmarshal(data, &token); err != nil {
		return Token{}, false
	}
	if !token.Valid() {
		return Token{}, false
	}
	return token, true
}

// Clear removes the token pair by deleting the backing file, so both fields
// vanish together.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("tokenstore: clear: %w", err)
	}
	return nil
}

// writeFileAtomic writes data via a temp file and rename so readers never
// observe a half-written token pair.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("tokenstore: mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("tokenstore: create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("tokenstore: write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenstore: close temp: %w", err)
	}
	_ = os.Chmod(tmpPath, perm)

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("tokenstore: rename: %w", err)
	}
	return nil
}
