package providers

import (
	"fmt"
	"io"
	"launchpad/internal/structures"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeSync
	TypeRegistration
)

func (t TypeEnum) String() string {
	switch t {
	case TypeGet:
		return "GET"
	case TypePost:
		return "POST"
	case TypeSync:
		return "SYNC"
	case TypeRegistration:
		return "REGISTRATION"
	default:
		return "APP"
	}
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

// LogProvider writes application events to app.log and HTTP events to access.log
// inside the configured directory.
type LogProvider struct {
	app    zerolog.Logger
	access zerolog.Logger
	files  []*os.File
}

func (l *LogProvider) event(level zerolog.Level, t TypeEnum) *zerolog.Event {
	logger := l.app
	if t == TypeGet || t == TypePost {
		logger = l.access
	}
	return logger.WithLevel(level).Str("type", t.String())
}

func (l *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.event(zerolog.ErrorLevel, t).Msgf(format, args...)
}

func (l *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.event(zerolog.WarnLevel, t).Msgf(format, args...)
}

func (l *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.event(zerolog.DebugLevel, t).Msgf(format, args...)
}

func (l *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	l.event(zerolog.InfoLevel, t).Msgf(format, args...)
}

func (l *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.event(zerolog.FatalLevel, t).Msgf(format, args...)
	l.Close()
	os.Exit(1)
}

func (l *LogProvider) Close() {
	for _, f := range l.files {
		_ = f.Sync()
		_ = f.Close()
	}
	l.files = nil
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	mode := os.FileMode(conf.Logger.Mode)
	if mode == 0 {
		mode = 0644
	}

	if err = os.MkdirAll(conf.Logger.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}

	appFile, err := os.OpenFile(filepath.Join(conf.Logger.Dir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		return nil, fmt.Errorf("unable to open app log: %w", err)
	}
	accessFile, err := os.OpenFile(filepath.Join(conf.Logger.Dir, "access.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, mode)
	if err != nil {
		appFile.Close()
		return nil, fmt.Errorf("unable to open access log: %w", err)
	}

	var appOut io.Writer = appFile
	if conf.Debug {
		appOut = zerolog.MultiLevelWriter(appFile, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return &LogProvider{
		app:    zerolog.New(appOut).Level(level).With().Timestamp().Logger(),
		access: zerolog.New(accessFile).Level(level).With().Timestamp().Logger(),
		files:  []*os.File{appFile, accessFile},
	}, nil
}
