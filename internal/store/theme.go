package store

import (
	"os"
	"path/filepath"
	"strings"

	"cvlens/internal/errors"
)

const themeFileName = "theme"

// SaveTheme persists the named theme so it survives restarts.
func (s *ResultStore) SaveTheme(name string) error {
	path := filepath.Join(s.dataDir, themeFileName)
	if err := os.WriteFile(path, []byte(name+"\n"), 0o600); err != nil {
		return errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Could not save the theme preference", err)
	}
	return nil
}

// LoadTheme returns the persisted theme name, or the empty string when no
// choice has been saved yet.
func (s *ResultStore) LoadTheme() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dataDir, themeFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.NewStorageError(errors.ErrCodeStorageFailed,
			"Could not read the theme preference", err)
	}
	return strings.TrimSpace(string(data)), nil
}
