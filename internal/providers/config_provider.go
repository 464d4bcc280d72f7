package providers

import (
	"fmt"
	"os"
	"path/filepath"
	"runboard/internal/structures"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	dir := filepath.Dir(flags.ConfigPath)
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("unable to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(dir)
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.profile", "default")
	v.SetDefault("run.stageSeconds", 360)
	v.SetDefault("run.invulnerabilitySeconds", 1.0)
	v.SetDefault("run.startingHearts", 3)
	v.SetDefault("run.maxHearts", 3)
	v.SetDefault("run.tickInterval", "1s")
	v.SetDefault("cache.ttl", "30s")

	_ = v.BindEnv("logger.level", "RUNBOARD_LOG_LEVEL")
	_ = v.BindEnv("storage.dir", "RUNBOARD_STORAGE_DIR")
	_ = v.BindEnv("leaderboard.practiceMode", "RUNBOARD_PRACTICE_MODE")
	_ = v.BindEnv("leaderboard.anonymous", "RUNBOARD_ANONYMOUS")
	_ = v.BindEnv("cache.enabled", "RUNBOARD_CACHE_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "RunBoard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
