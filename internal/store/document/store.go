// Package document persists the user configuration (default name and alias
// table) as a JSON file.
//
// The file is always rewritten as a whole. Writes go to a temporary file in
// the same directory which is fsynced and renamed into place, so a crash
// never leaves a half-written config behind. Concurrent writers in other
// processes are not coordinated: the last save wins.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/logger"
)

// Store owns the active document and its canonical location.
type Store struct {
	mu     sync.RWMutex
	path   string
	doc    domain.Document
	logger logger.Logger
}

// Open prepares the canonical file (creating it on first use), loads it and
// writes it back normalised.
func Open(path string, log logger.Logger) (*Store, error) {
	if err := EnsureExists(path, log); err != nil {
		return nil, err
	}

	s := &Store{path: path, logger: log.With(logger.Component("document"))}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	if err := Save(s.doc, s.path); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the canonical location.
func (s *Store) Path() string { return s.path }

// View implements domain.DocumentStore.
func (s *Store) View(fn func(doc *domain.Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.doc)
}

// Update implements domain.DocumentStore. The document is saved only when fn
// reports a change.
func (s *Store) Update(fn func(doc *domain.Document) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(&s.doc) {
		return nil
	}
	return Save(s.doc, s.path)
}

// Replace implements domain.DocumentStore: the document at path becomes the
// active one and is saved to the canonical location.
func (s *Store) Replace(path string) error {
	doc, err := Load(path, s.logger)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = doc
	s.logger.Info("config imported",
		logger.String("from", path),
		logger.Int("aliases", doc.Aliases.Len()))
	return Save(s.doc, s.path)
}

// Reload re-reads the canonical file, picking up edits made by other processes.
func (s *Store) Reload() error {
	doc, err := Load(s.path, s.logger)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	return nil
}

// EnsureExists creates the parent directory and an empty "{}" document when
// path does not exist yet.
func EnsureExists(path string, log logger.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat config: %w", err)
	}

	log.Info("creating config", logger.String("path", path))
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	return nil
}

// Load reads the document at path. Empty or malformed content yields an
// empty document and a warning, never an error; read failures are returned.
// A JSON field of the wrong type is dropped on its own with a warning.
func Load(path string, log logger.Logger) (domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("failed to read config: %w", err)
	}

	doc, dropped, err := decode(path, data)
	if err != nil {
		log.Warn("config is empty or malformed, starting from an empty one",
			logger.String("path", path),
			logger.Error(err))
		return domain.Document{}, nil
	}
	for _, field := range dropped {
		log.Warn("ignoring config field of the wrong type",
			logger.String("path", path),
			logger.String("field", field))
	}
	return doc, nil
}

// Save atomically replaces path with the serialised document.
func Save(doc domain.Document, path string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary config: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move config into place: %w", err)
	}
	return nil
}
