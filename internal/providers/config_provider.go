package providers

import (
	"fmt"
	"launchpad/internal/structures"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppName = "Launchpad"

// DefaultDataDir is the per-user application data directory holding the history
// cache and the settings file.
func DefaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "launchpad")
	}
	return filepath.Join(dir, "launchpad")
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "127.0.0.1")
	v.SetDefault("webServer.port", 8765)
	v.SetDefault("backend.timeout", 30*time.Second)
	v.SetDefault("storage.dataDir", DefaultDataDir())
	v.SetDefault("storage.historyFile", "history.json")
	v.SetDefault("storage.settingsFile", "settings.yaml")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("logger.dir", DefaultDataDir())
	v.SetDefault("sync.captionInterval", time.Second)
	v.SetDefault("credentials.service", "launchpad")
	v.SetDefault("credentials.fileDir", "~/.config/launchpad/credentials")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	setConfigDefaults(v)

	v.BindEnv("logger.level", "LAUNCHPAD_LOG_LEVEL")
	v.BindEnv("logger.dir", "LAUNCHPAD_LOG_DIR")
	v.BindEnv("backend.url", "LAUNCHPAD_BACKEND_URL")
	v.BindEnv("backend.secret", "LAUNCHPAD_BACKEND_SECRET")
	v.BindEnv("backend.device", "LAUNCHPAD_DEVICE")
	v.BindEnv("storage.dataDir", "LAUNCHPAD_DATA_DIR")
	v.BindEnv("storage.compress", "LAUNCHPAD_COMPRESS")
	v.BindEnv("sync.incremental", "LAUNCHPAD_INCREMENTAL")
	v.BindEnv("cache.enabled", "LAUNCHPAD_CACHE_ENABLED")
	v.BindEnv("cache.size", "LAUNCHPAD_CACHE_SIZE")

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

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.Preview = flags.PreviewMode

	return &conf, nil
}

// HistoryFilePath resolves the cache file location against the data directory.
func HistoryFilePath(conf *structures.Config) string {
	return resolveDataPath(conf, conf.Storage.HistoryFile)
}

func SettingsFilePath(conf *structures.Config) string {
	return resolveDataPath(conf, conf.Storage.SettingsFile)
}

func resolveDataPath(conf *structures.Config, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(conf.Storage.DataDir, name)
}
