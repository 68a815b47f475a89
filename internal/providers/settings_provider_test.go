package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settingsTestLogger struct{}

func (m *settingsTestLogger) Errorf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *settingsTestLogger) Warnf(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *settingsTestLogger) Debugf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *settingsTestLogger) Infof(_ TypeEnum, _ string, _ ...interface{})  {}
func (m *settingsTestLogger) Fatalf(_ TypeEnum, _ string, _ ...interface{}) {}
func (m *settingsTestLogger) Close()                                        {}

func TestSettingsProvider_FreshStart(t *testing.T) {
	conf := validConfig()
	conf.Storage.DataDir = t.TempDir()

	s, err := NewSettingsProvider(conf, &settingsTestLogger{})
	require.NoError(t, err)

	assert.Empty(t, s.DeviceToken())
	_, ok := s.LastRegistered()
	assert.False(t, ok)
}

func TestSettingsProvider_SaveAndReload(t *testing.T) {
	conf := validConfig()
	conf.Storage.DataDir = filepath.Join(t.TempDir(), "nested")

	s, err := NewSettingsProvider(conf, &settingsTestLogger{})
	require.NoError(t, err)

	at := time.Unix(1707061300, 0)
	require.NoError(t, s.SaveRegistration("abcdef", at))
	assert.Equal(t, "abcdef", s.DeviceToken())

	reloaded, err := NewSettingsProvider(conf, &settingsTestLogger{})
	require.NoError(t, err)
	assert.Equal(t, "abcdef", reloaded.DeviceToken())
	got, ok := reloaded.LastRegistered()
	assert.True(t, ok)
	assert.True(t, at.Equal(got))
}

func TestSettingsProvider_CorruptFile(t *testing.T) {
	conf := validConfig()
	conf.Storage.DataDir = t.TempDir()
	require.NoError(t, os.WriteFile(SettingsFilePath(conf), []byte("apns_token: [unterminated"), 0644))

	_, err := NewSettingsProvider(conf, &settingsTestLogger{})
	assert.Error(t, err)
}
