package storage

import (
	"fmt"
	"path/filepath"
	"runboard/internal/providers"
	"runboard/internal/storage/interfaces"
	"runboard/internal/structures"
)

// NewBlobStore builds the configured driver scoped to the active profile.
func NewBlobStore(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (interfaces.BlobStoreInterface, error) {
	switch conf.Storage.Driver {
	case "memory":
		logger.Infof(providers.TypeStorage, "Using in-memory blob store for profile %s", conf.Storage.Profile)
		return NewMemoryBlobStore(), nil
	case "file", "":
		dir := filepath.Join(conf.Storage.Dir, conf.Storage.Profile)
		logger.Infof(providers.TypeStorage, "Using file blob store at %s", dir)
		return NewFileBlobStore(dir, logger, metrics)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", conf.Storage.Driver)
	}
}
