// Package store persists small string values across runs. The gradient
// editor mirrors its current style descriptor here so the last gradient can
// be restored on the next start.
//
// Two backends are available: a JSON file (the default) and a SQLite
// database. Both live under os.UserConfigDir()/gradgen unless a path is
// given explicitly.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const appDir = "gradgen"

// Driver names accepted by Open
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("store: key not found")

// pathOverride, when non-empty, replaces the default path for every driver.
// Intended for testing. Use SetPath / ResetPath to manage.
var pathOverride string

// SetPath overrides the default storage path. Intended for testing.
func SetPath(p string) { pathOverride = p }

// ResetPath clears the path override. Intended for testing.
func ResetPath() { pathOverride = "" }

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Close releases resources held by the store.
	Close() error
}

// DefaultPath returns the storage location for driver.
func DefaultPath(driver string) (string, error) {
	if pathOverride != "" {
		return pathOverride, nil
	}

	var name string
	switch driver {
	case DriverFile, "":
		name = "storage.json"
	case DriverSQLite:
		name = "gradgen.db"
	default:
		return "", fmt.Errorf("store: unknown driver %q", driver)
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("store: unable to determine config directory: %w", err)
	}
	return filepath.Join(base, appDir, name), nil
}

// Open opens a store with the given driver ("file" or "sqlite"). An empty
// path selects DefaultPath(driver).
func Open(driver, path string) (Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath(driver)
		if err != nil {
			return nil, err
		}
	}

	switch driver {
	case DriverFile, "":
		return OpenFile(path)
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("store: unknown driver %q (want %s or %s)", driver, DriverFile, DriverSQLite)
	}
}
