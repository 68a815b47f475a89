package testutil

import (
	"context"
	"errors"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"os"
	"sync"
	"time"
)

// IDs lists record IDs in order.
func IDs(h models.History) []string {
	ids := make([]string, len(h))
	for i, r := range h {
		ids[i] = r.ID
	}
	return ids
}

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu               sync.Mutex
	Fetches          map[string]int
	TokenSubmissions map[string]int
	HistoryRecords   int
	Registered       bool
	Persisted        int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObserveFetchDuration(_ time.Duration)             {}

func (m *MockMetrics) IncHistoryFetches(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fetches == nil {
		m.Fetches = make(map[string]int)
	}
	m.Fetches[outcome]++
}

func (m *MockMetrics) IncTokenSubmissions(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TokenSubmissions == nil {
		m.TokenSubmissions = make(map[string]int)
	}
	m.TokenSubmissions[outcome]++
}

func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Persisted++
}

func (m *MockMetrics) SetHistoryRecords(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HistoryRecords = count
}

func (m *MockMetrics) SetRegistered(registered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registered = registered
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu     sync.Mutex
	Data   map[string][]byte
	Purges int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data = make(map[string][]byte)
	m.Purges++
}

// MockCompressor implements history.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}

// MockSettings implements providers.SettingsProviderInterface in memory.
type MockSettings struct {
	mu        sync.Mutex
	Token     string
	At        time.Time
	HasAt     bool
	SaveErr   error
	SaveCalls int
	// SaveBlock, when set, holds SaveRegistration until it is closed.
	SaveBlock chan struct{}
}

func (m *MockSettings) DeviceToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Token
}

func (m *MockSettings) LastRegistered() (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.At, m.HasAt
}

func (m *MockSettings) SaveRegistration(token string, at time.Time) error {
	if m.SaveBlock != nil {
		<-m.SaveBlock
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Token = token
	m.At = at
	m.HasAt = true
	return nil
}

// MockStore implements history.StoreInterface in memory.
type MockStore struct {
	mu      sync.Mutex
	Records models.History
	Present bool
	LoadErr error
	Saves   []models.History
}

func (m *MockStore) Load() (models.History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if !m.Present {
		return nil, &models.StorageError{Path: "memory", Err: os.ErrNotExist}
	}
	out := make(models.History, len(m.Records))
	copy(out, m.Records)
	return out, nil
}

func (m *MockStore) Save(records models.History) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(models.History{}, records...)
	m.Present = true
	m.Saves = append(m.Saves, m.Records)
	return nil
}

func (m *MockStore) SaveAsync(records models.History) {
	_ = m.Save(records)
}

func (m *MockStore) Wait() {}

func (m *MockStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saves)
}

// MockFetcher implements backend.HistoryFetcherInterface.
type MockFetcher struct {
	mu      sync.Mutex
	Records models.History
	Err     error
	Calls   []*time.Time
	Block   chan struct{}
}

func (m *MockFetcher) Fetch(ctx context.Context, after *time.Time) (models.History, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, after)
	block := m.Block
	records, err := m.Records, m.Err
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, models.FetchFailed(ctx.Err())
		}
	}
	if err != nil {
		return nil, err
	}
	return append(models.History{}, records...), nil
}

func (m *MockFetcher) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockSubmitter implements backend.TokenSubmitterInterface.
type MockSubmitter struct {
	mu     sync.Mutex
	Tokens []string
	Err    error
	Done   chan string
}

func NewMockSubmitter() *MockSubmitter {
	return &MockSubmitter{Done: make(chan string, 16)}
}

func (m *MockSubmitter) Submit(_ context.Context, token string) error {
	m.mu.Lock()
	m.Tokens = append(m.Tokens, token)
	err := m.Err
	m.mu.Unlock()
	if m.Done != nil {
		m.Done <- token
	}
	return err
}

func (m *MockSubmitter) Submitted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.Tokens...)
}

// MockPlatform implements registration.Platform.
type MockPlatform struct {
	mu            sync.Mutex
	Registered    bool
	Permission    bool
	PermissionErr error
	RegisterErr   error
	RegisterCalls int
}

func (m *MockPlatform) IsRegistered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Registered
}

func (m *MockPlatform) SetRegistered(registered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Registered = registered
}

func (m *MockPlatform) RequestPermission(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Permission, m.PermissionErr
}

func (m *MockPlatform) Register() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RegisterCalls++
	return m.RegisterErr
}

func (m *MockPlatform) Registers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RegisterCalls
}

// MockCredentials implements providers.CredentialProviderInterface in memory.
type MockCredentials struct {
	Values map[string]string
}

func (m *MockCredentials) Get(key string) (string, error) {
	if v, ok := m.Values[key]; ok {
		return v, nil
	}
	return "", errors.New("credential not found")
}

func (m *MockCredentials) Set(key string, value string) error {
	if m.Values == nil {
		m.Values = make(map[string]string)
	}
	m.Values[key] = value
	return nil
}
