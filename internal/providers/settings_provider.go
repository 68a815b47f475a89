package providers

import (
	"errors"
	"fmt"
	"launchpad/internal/models"
	"launchpad/internal/structures"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	settingTokenKey          = "apns_token"
	settingLastRegisteredKey = "last_registered"
)

// SettingsProviderInterface is the scalar key-value store for registration data.
type SettingsProviderInterface interface {
	DeviceToken() string
	LastRegistered() (time.Time, bool)
	SaveRegistration(token string, at time.Time) error
}

type SettingsProvider struct {
	mu   sync.Mutex
	path string
	v    *viper.Viper
}

func NewSettingsProvider(conf *structures.Config, logger Logger) (SettingsProviderInterface, error) {
	path := SettingsFilePath(conf)
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading settings %s: %w", path, err)
		}
		logger.Infof(TypeApp, "No settings file at %s, starting fresh", path)
	}

	return &SettingsProvider{path: path, v: v}, nil
}

func (s *SettingsProvider) DeviceToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(settingTokenKey)
}

func (s *SettingsProvider) LastRegistered() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.v.IsSet(settingLastRegisteredKey) {
		return time.Time{}, false
	}
	return models.FromEpochSeconds(s.v.GetFloat64(settingLastRegisteredKey)), true
}

func (s *SettingsProvider) SaveRegistration(token string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.v.Set(settingTokenKey, token)
	s.v.Set(settingLastRegisteredKey, models.EpochSeconds(at))

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("writing settings to %s: %w", s.path, err)
	}
	return nil
}
