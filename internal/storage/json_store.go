package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lockinhq/lockin/internal/logger"
	"github.com/lockinhq/lockin/internal/models"
)

// JSONStore keeps the document as one pretty-printed JSON file, mode 0600.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Load() (models.AppState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return models.AppState{}, ErrNotFound
		}
		return models.AppState{}, fmt.Errorf("failed to read storage: %w", err)
	}

	var state models.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		// Data loss is accepted as a last resort here, never a crash.
		logger.Error("Stored document is malformed, callers will fall back to defaults", "path", s.path, "error", err)
		return models.AppState{}, fmt.Errorf("failed to parse storage: %w", err)
	}

	return withCollections(state), nil
}

func (s *JSONStore) Save(state models.AppState) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(withCollections(state), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Close() error { return nil }

// withCollections ensures nil slices round-trip as empty JSON arrays.
func withCollections(s models.AppState) models.AppState {
	if s.Logs == nil {
		s.Logs = []models.FocusLog{}
	}
	if s.Progress == nil {
		s.Progress = []models.ChapterProgress{}
	}
	if s.Tasks == nil {
		s.Tasks = []models.Task{}
	}
	if s.AllowList == nil {
		s.AllowList = []string{}
	}
	return s
}
