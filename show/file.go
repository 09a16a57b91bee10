package show

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// LoadFile reads and decodes a show document. Nothing is returned unless the whole
// document is valid.
func LoadFile(path string) (*Store, *Aggregator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read show file: %w", err)
	}

	store, totals, err := Deserialize(data)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	log.Info("Loaded show", "path", path, "fireworks", store.Len())
	return store, totals, nil
}

// SaveFile writes the show to path through a temporary file in the same directory,
// so a failed save leaves any existing file untouched.
func SaveFile(path string, store *Store, totals *Aggregator) error {
	data, err := Serialize(store, totals)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary show file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write show file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync show file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close show file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set show file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace show file: %w", err)
	}

	log.Info("Saved show", "path", path, "fireworks", store.Len())
	return nil
}
