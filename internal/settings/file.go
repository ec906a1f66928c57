package settings

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/ppc-cli/internal/model"
)

// FileStore keeps settings in a YAML file.
type FileStore struct {
	path     string
	defaults model.Settings
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, defaults: model.DefaultSettings()}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Load reads the file over the defaults, so keys missing from an older file
// keep their default values.
func (f *FileStore) Load(_ context.Context) (model.Settings, error) {
	s := f.defaults
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, eris.Wrap(err, "settings: read file")
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return f.defaults, eris.Wrapf(err, "settings: parse %s", f.path)
	}
	return s, nil
}

// Save writes s atomically.
func (f *FileStore) Save(_ context.Context, s model.Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return eris.Wrap(err, "settings: marshal")
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrap(err, "settings: create dir")
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrap(err, "settings: write file")
	}
	return eris.Wrap(os.Rename(tmp, f.path), "settings: replace file")
}

// Reset removes the file.
func (f *FileStore) Reset(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrap(err, "settings: remove file")
	}
	return nil
}

// Close is a no-op.
func (f *FileStore) Close() error { return nil }
