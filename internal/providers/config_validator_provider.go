package providers

import (
	"fmt"
	"runboard/internal/structures"

	"github.com/gookit/validate"
)

// MaxCacheSizeMB bounds cache.size, which is read as megabytes.
const MaxCacheSizeMB = 1024

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return v.Errors
	}
	if cv.conf.Run.StartingHearts > cv.conf.Run.MaxHearts {
		return fmt.Errorf("run.startingHearts (%d) exceeds run.maxHearts (%d)", cv.conf.Run.StartingHearts, cv.conf.Run.MaxHearts)
	}
	if cv.conf.Cache.Size < 0 || cv.conf.Cache.Size > MaxCacheSizeMB {
		return fmt.Errorf("cache.size must be within 0..%d MB, got %d", MaxCacheSizeMB, cv.conf.Cache.Size)
	}
	if cv.conf.Storage.Driver == "file" && cv.conf.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required for the file driver")
	}
	return nil
}
