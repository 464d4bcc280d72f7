package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runboard/internal/providers"
	"time"
)

const blobExt = ".sav"

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileBlobStore keeps one file per key under a profile directory.
// Writes go to a temp file and are renamed into place.
type FileBlobStore struct {
	dir     string
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewFileBlobStore(dir string, logger providers.Logger, metrics providers.MetricsProviderInterface) (*FileBlobStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}
	return &FileBlobStore{dir: dir, logger: logger, metrics: metrics}, nil
}

func (f *FileBlobStore) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return filepath.Join(f.dir, key+blobExt), nil
}

func (f *FileBlobStore) Load(key string) ([]byte, bool, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (f *FileBlobStore) Save(key string, data []byte) error {
	start := time.Now()
	defer func() { f.metrics.ObservePersistenceDuration(time.Since(start)) }()

	path, err := f.path(key)
	if err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err = os.Rename(tmpFile, path); err != nil {
		return err
	}
	f.logger.Debugf(providers.TypeStorage, "Saved blob %s (%d bytes)", key, len(data))
	return nil
}

func (f *FileBlobStore) Exists(key string) bool {
	path, err := f.path(key)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

func (f *FileBlobStore) Delete(key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
