package history

import (
	"bytes"
	"errors"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"launchpad/internal/structures"
	"os"
	"path/filepath"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

type StoreInterface interface {
	Load() (models.History, error)
	Save(records models.History) error
	SaveAsync(records models.History)
	Wait()
}

// Store is the only reader and writer of the history cache file.
type Store struct {
	path       string
	compress   bool
	compressor CompressorInterface
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface

	writeMu sync.Mutex
	pending sync.WaitGroup
	seqMu   sync.Mutex
	issued  uint64
	written uint64
}

func NewStore(conf *structures.Config, compressor CompressorInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) StoreInterface {
	return &Store{
		path:       providers.HistoryFilePath(conf),
		compress:   conf.Storage.Compress,
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (s *Store) storageError(err error) error {
	return &models.StorageError{Path: s.path, Err: err}
}

// Load reads the cached history. Every failure, including a missing file, is a
// *models.StorageError; callers treat it as an empty cache.
func (s *Store) Load() (models.History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, s.storageError(err)
	}

	if IsCompressed(data) {
		data, err = s.compressor.Decompress(data)
		if err != nil {
			return nil, s.storageError(err)
		}
	}

	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		return nil, s.storageError(errors.New("cache file does not hold an array"))
	}

	var records models.History
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, s.storageError(err)
	}
	if records == nil {
		records = models.History{}
	}

	s.logger.Debugf(providers.TypeSync, "Retrieved %d history items from %s", len(records), s.path)
	return records, nil
}

// Save replaces the whole cache file with records.
func (s *Store) Save(records models.History) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.write(records)
}

func (s *Store) write(records models.History) error {
	start := time.Now()
	defer func() { s.metrics.ObservePersistenceDuration(time.Since(start)) }()

	if records == nil {
		records = models.History{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return s.storageError(err)
	}
	if s.compress {
		if data, err = s.compressor.Compress(data); err != nil {
			return s.storageError(err)
		}
	}

	if err = os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return s.storageError(err)
	}

	tmpFile := s.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return s.storageError(err)
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return s.storageError(err)
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return s.storageError(err)
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return s.storageError(err)
	}
	if err = os.Rename(tmpFile, s.path); err != nil {
		return s.storageError(err)
	}

	s.logger.Debugf(providers.TypeSync, "Wrote %d history items to %s", len(records), s.path)
	return nil
}

// SaveAsync writes records in the background. Failures are logged and dropped.
// When several saves overlap, a save that was issued earlier than one already
// written is skipped.
func (s *Store) SaveAsync(records models.History) {
	snapshot := make(models.History, len(records))
	copy(snapshot, records)

	s.seqMu.Lock()
	s.issued++
	seq := s.issued
	s.seqMu.Unlock()

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		s.writeMu.Lock()
		defer s.writeMu.Unlock()

		s.seqMu.Lock()
		stale := seq < s.written
		s.seqMu.Unlock()
		if stale {
			return
		}

		if err := s.write(snapshot); err != nil {
			s.logger.Errorf(providers.TypeSync, "Unable to write history cache: %s", err)
			return
		}

		s.seqMu.Lock()
		s.written = seq
		s.seqMu.Unlock()
	}()
}

// Wait blocks until every SaveAsync issued so far has finished.
func (s *Store) Wait() {
	s.pending.Wait()
}
