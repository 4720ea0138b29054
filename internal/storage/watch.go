package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/diogo/startychat/internal/logging"
)

// Watch reports changes written to the storage file by another process.
// onChange receives the keys that differ from the in-memory copy; writes
// made through this Store are not reported. Watch blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, logger *zap.Logger, onChange func(keys []string)) error {
	logger = logging.OrNop(logger)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// The file is replaced by rename, so the directory is watched.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch storage directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			keys, err := s.reload()
			if err != nil {
				logger.Warn("storage reload failed", zap.Error(err))
				continue
			}
			if len(keys) > 0 {
				logger.Debug("storage changed externally", zap.Strings("keys", keys))
				onChange(keys)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("storage watcher error", zap.Error(err))
		}
	}
}

// reload re-reads the file and returns the keys that changed.
func (s *Store) reload() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := readItems(s.path)
	if err != nil {
		return nil, err
	}

	keys := changedKeys(s.items, items)
	if len(keys) > 0 {
		s.items = items
	}
	return keys, nil
}
