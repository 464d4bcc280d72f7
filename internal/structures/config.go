package structures

import "time"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
}

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StorageConfig struct {
	Driver  string `yaml:"driver" validate:"required|in:file,memory"`
	Dir     string `yaml:"dir"`
	Profile string `yaml:"profile" validate:"required"`
}

type RunConfig struct {
	StageSeconds           float64       `yaml:"stageSeconds" validate:"required|min:1"`
	InvulnerabilitySeconds float64       `yaml:"invulnerabilitySeconds"`
	StartingHearts         int           `yaml:"startingHearts" validate:"required|min:1"`
	MaxHearts              int           `yaml:"maxHearts" validate:"required|min:1"`
	TickInterval           time.Duration `yaml:"tickInterval"`
	AutoTick               bool          `yaml:"autoTick"`
}

type LeaderboardConfig struct {
	TargetTablePath string `yaml:"targetTablePath"`
	TargetCsvPath   string `yaml:"targetCsvPath"`
	PracticeMode    bool   `yaml:"practiceMode"`
	Anonymous       bool   `yaml:"anonymous"`
}

type ItemsConfig struct {
	CatalogPath string `yaml:"catalogPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Logger      LoggerConfig      `yaml:"logger"`
	Storage     StorageConfig     `yaml:"storage"`
	Run         RunConfig         `yaml:"run"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Items       ItemsConfig       `yaml:"items"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
