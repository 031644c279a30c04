// Package assets reads the game's JSON data files from a directory.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// DirLoader loads named JSON assets from a single directory.
type DirLoader struct {
	Dir string
}

func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{Dir: dir}
}

func (l *DirLoader) path(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("asset name %q escapes the asset directory", name)
	}
	return filepath.Join(l.Dir, name), nil
}

// Load decodes the named asset into v.
func (l *DirLoader) Load(name string, v any) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read asset %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse asset %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the named asset is present as a regular file.
func (l *DirLoader) Exists(name string) bool {
	path, err := l.path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// IsNotExist reports whether err came from loading an asset that is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
