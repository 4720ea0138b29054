// Package storage provides the file-backed key/value storage that holds the
// chat transcript and the theme preference between runs.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/diogo/startychat/internal/config"
)

// Store is a string key/value map persisted as one JSON file.
// Every mutation is written through to disk.
type Store struct {
	path  string
	mu    sync.RWMutex
	items map[string]string
}

// NewStore opens the store at path, creating the parent directory.
// A missing file is an empty store.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	items, err := readItems(path)
	if err != nil {
		return nil, err
	}

	return &Store{
		path:  path,
		items: items,
	}, nil
}

// DefaultStore opens the store in the configuration directory.
func DefaultStore() (*Store, error) {
	path, err := config.GetStoragePath()
	if err != nil {
		return nil, err
	}
	return NewStore(path)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// GetItem returns the value for key and whether it was present.
func (s *Store) GetItem(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.items[key]
	return value, ok
}

// SetItem stores value under key.
func (s *Store) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.items[key]; ok && current == value {
		return nil
	}

	next := cloneItems(s.items)
	next[key] = value
	if err := writeItems(s.path, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// RemoveItem deletes key. Removing a missing key is not an error.
func (s *Store) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[key]; !ok {
		return nil
	}

	next := cloneItems(s.items)
	delete(next, key)
	if err := writeItems(s.path, next); err != nil {
		return err
	}
	s.items = next
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.items))
	for k := range s.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Internal methods

func readItems(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}

	items := map[string]string{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	return items, nil
}

// writeItems replaces the file atomically so a concurrent reader never sees
// a half-written map.
func writeItems(path string, items map[string]string) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set storage permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace storage: %w", err)
	}
	return nil
}

func cloneItems(items map[string]string) map[string]string {
	out := make(map[string]string, len(items)+1)
	for k, v := range items {
		out[k] = v
	}
	return out
}

// changedKeys lists keys whose presence or value differs between a and b.
func changedKeys(a, b map[string]string) []string {
	var keys []string
	for k, av := range a {
		if bv, ok := b[k]; !ok || bv != av {
			keys = append(keys, k)
		}
	}
	for k := range b {
		if _, ok := a[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
