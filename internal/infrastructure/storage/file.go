// Package storage holds the file-backed session storage used by hosposctl.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage keeps every profile's session fields in one JSON file,
// written atomically with 0600 permissions.
type FileStorage struct {
	path string
	mu   sync.RWMutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

type fileContents map[string]map[string]string

func (s *FileStorage) Load(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(all[key]))
	for k, v := range all[key] {
		fields[k] = v
	}
	return fields, nil
}

func (s *FileStorage) Save(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	stored := make(map[string]string, len(fields))
	for k, v := range fields {
		if v != "" {
			stored[k] = v
		}
	}
	all[key] = stored
	return s.write(all)
}

func (s *FileStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := all[key]; !ok {
		return nil
	}
	delete(all, key)
	return s.write(all)
}

// read returns an empty set when the file does not exist yet.
func (s *FileStorage) read() (fileContents, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return fileContents{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	all := fileContents{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("decode session file %s: %w", s.path, err)
	}
	return all, nil
}

func (s *FileStorage) write(all fileContents) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session file: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
