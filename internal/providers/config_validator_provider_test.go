package providers

import (
	"runboard/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Storage: structures.StorageConfig{
			Driver:  "file",
			Dir:     "/tmp/runboard",
			Profile: "default",
		},
		Run: structures.RunConfig{
			StageSeconds:           360,
			InvulnerabilitySeconds: 1,
			StartingHearts:         3,
			MaxHearts:              5,
			TickInterval:           time.Second,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_UnknownStorageDriver(t *testing.T) {
	c := validConfig()
	c.Storage.Driver = "sqlite"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_FileDriverNeedsDir(t *testing.T) {
	c := validConfig()
	c.Storage.Dir = ""
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Storage.Driver = "memory"
	assert.NoError(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_StartingHeartsAboveMax(t *testing.T) {
	c := validConfig()
	c.Run.StartingHearts = 6
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_CacheSizeBounds(t *testing.T) {
	c := validConfig()
	c.Cache.Size = MaxCacheSizeMB
	assert.NoError(t, NewCnfValidator(c).Validate())

	c.Cache.Size = MaxCacheSizeMB + 1
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Cache.Size = -1
	assert.Error(t, NewCnfValidator(c).Validate())
}
