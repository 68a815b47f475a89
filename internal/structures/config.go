package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type BackendConfig struct {
	Url     string        `yaml:"url" validate:"required|fullUrl"`
	Secret  string        `yaml:"secret"`
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
	Device  string        `yaml:"device" validate:"deviceClass"`
}

type StorageConfig struct {
	DataDir      string `yaml:"dataDir" validate:"required|localPath"`
	HistoryFile  string `yaml:"historyFile" validate:"required"`
	SettingsFile string `yaml:"settingsFile" validate:"required"`
	Compress     bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|localPath"`
}

type SyncConfig struct {
	Incremental     bool          `yaml:"incremental"`
	CaptionInterval time.Duration `yaml:"captionInterval" validate:"required|min:1"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CredentialsConfig selects where the backend secret is looked up when it is
// not present in the config file or the environment.
type CredentialsConfig struct {
	Service string `yaml:"service"`
	FileDir string `yaml:"fileDir"`
}

type Config struct {
	AppName     string
	Debug       bool
	Preview     bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Backend     BackendConfig     `yaml:"backend"`
	Storage     StorageConfig     `yaml:"storage"`
	Logger      LoggerConfig      `yaml:"logger"`
	Sync        SyncConfig        `yaml:"sync"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Credentials CredentialsConfig `yaml:"credentials"`
}
