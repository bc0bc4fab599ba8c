// Package storage persists the application state document on the local
// device. The whole AppState is the unit of persistence: providers store and
// return exactly one document.
package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/lockinhq/lockin/internal/constants"
	"github.com/lockinhq/lockin/internal/models"
)

// ErrNotFound is returned by Load on first run, before any document has been
// saved.
var ErrNotFound = errors.New("no stored document")

// DocumentStore is the local persistence collaborator: put/get of one
// JSON-serializable AppState document.
type DocumentStore interface {
	// Load returns the stored document, ErrNotFound on first run. A
	// malformed stored document is reported as an error; callers fall back
	// to the default document rather than crash.
	Load() (models.AppState, error)
	// Save replaces the stored document.
	Save(models.AppState) error
	Close() error
}

// LoadOrDefault loads the document, falling back to the documented default on
// first run or when the stored document cannot be decoded.
func LoadOrDefault(store DocumentStore) models.AppState {
	state, err := store.Load()
	if err != nil {
		return models.Default()
	}
	return state
}

// Open picks a provider from the path: .db and .sqlite files open the SQLite
// store, everything else the JSON store.
func Open(path string) (DocumentStore, error) {
	if strings.HasSuffix(path, ".db") || strings.HasSuffix(path, ".sqlite") {
		return NewSQLiteStore(path)
	}
	return NewJSONStore(path), nil
}

// DefaultPath expands the default config location for the state document.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.StateFileName), nil
}

// ConfigDir returns ~/.config/lockin, creating nothing.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", constants.AppName), nil
}

// ExpandPath resolves a leading ~/ against the home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
