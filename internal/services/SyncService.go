package services

import (
	"context"
	"errors"
	"launchpad/internal/backend"
	"launchpad/internal/history"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"launchpad/internal/registration"
	"launchpad/internal/structures"
	"os"
	"sync"
	"time"

	"go.uber.org/atomic"
)

const viewBuffer = 16

// HistoryView is what presentation layers render.
type HistoryView struct {
	Attempted bool                  `json:"attempted"`
	Caption   string                `json:"caption"`
	Records   models.History        `json:"records"`
	Groups    []models.HistoryGroup `json:"-"`
}

type SyncServiceInterface interface {
	Foreground(ctx context.Context)
	Trigger()
	History() models.History
	Groups() []models.HistoryGroup
	Caption() string
	Attempted() bool
	View() HistoryView
	Subscribe() (<-chan HistoryView, func())
	Close()
}

// SyncService runs one sync cycle per foreground transition and owns the
// displayed history.
type SyncService struct {
	conf    *structures.Config
	store   history.StoreInterface
	fetcher backend.HistoryFetcherInterface
	tracker registration.TrackerInterface
	cache   providers.CacheProviderInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	now     func() time.Time

	ctx      context.Context
	cancel   context.CancelFunc
	inFlight sync.WaitGroup

	cycles    *atomic.Uint64
	attempted *atomic.Bool

	mu           sync.Mutex
	applied      uint64
	records      models.History
	groups       []models.HistoryGroup
	caption      string
	tickerCancel context.CancelFunc
	tickers      sync.WaitGroup
	subscribers  map[int]chan HistoryView
	nextID       int
}

func NewSyncService(
	conf *structures.Config,
	store history.StoreInterface,
	fetcher backend.HistoryFetcherInterface,
	tracker registration.TrackerInterface,
	cache providers.CacheProviderInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *SyncService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SyncService{
		ctx:         ctx,
		cancel:      cancel,
		conf:        conf,
		store:       store,
		fetcher:     fetcher,
		tracker:     tracker,
		cache:       cache,
		logger:      logger,
		metrics:     metrics,
		now:         time.Now,
		cycles:      atomic.NewUint64(0),
		attempted:   atomic.NewBool(false),
		records:     models.History{},
		subscribers: make(map[int]chan HistoryView),
	}
}

// Foreground runs a full sync cycle and returns when its results are applied.
// The caption ticker of the previous cycle is stopped first; a fetch still
// running for an earlier cycle is left alone and its result is discarded if a
// later cycle has already been applied. In preview mode the sample history is
// applied instead and nothing is loaded, fetched or saved.
func (s *SyncService) Foreground(ctx context.Context) {
	cycle := s.cycles.Inc()
	s.stopTicker()
	s.tracker.Foreground()

	if s.conf.Preview {
		sample := models.SampleHistory()
		models.SortNewestFirst(sample)
		s.apply(cycle, sample, false)
		return
	}

	cached, err := s.store.Load()
	if err != nil {
		switch {
		case errors.Is(err, os.ErrNotExist):
			s.logger.Debugf(providers.TypeSync, "No cached history yet")
		case models.IsStorageError(err):
			s.logger.Warnf(providers.TypeSync, "Ignoring corrupt history cache: %s", err)
		default:
			s.logger.Errorf(providers.TypeSync, "Unable to load history cache: %s", err)
		}
		cached = models.History{}
	}

	var after *time.Time
	if s.conf.Sync.Incremental {
		if newest, ok := cached.Newest(); ok {
			posted := newest.Posted
			after = &posted
		}
	}

	fetched, err := s.fetcher.Fetch(ctx, after)
	if err != nil {
		s.logger.Warnf(providers.TypeSync, "Showing last known history: %s", err)
		s.apply(cycle, cached, true)
		return
	}

	merged := models.Merge(cached, fetched)
	models.SortNewestFirst(merged)
	s.apply(cycle, merged, false)
}

// Trigger runs a sync cycle in the background. Earlier cycles keep running.
func (s *SyncService) Trigger() {
	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		s.Foreground(s.ctx)
	}()
}

func (s *SyncService) apply(cycle uint64, records models.History, fetchFailed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cycle < s.applied {
		s.logger.Debugf(providers.TypeSync, "Discarding result of stale cycle %d", cycle)
		return
	}
	s.applied = cycle

	if !fetchFailed && !s.conf.Preview {
		s.store.SaveAsync(records)
	}

	caption := NewCaption(records, fetchFailed)
	s.records = records
	s.groups = models.GroupByMonth(records)
	s.caption = caption.Render(s.now())
	s.attempted.Store(true)
	s.metrics.SetHistoryRecords(len(records))
	s.cache.Purge()
	s.publishLocked()

	if caption.Relative() && cycle == s.cycles.Load() {
		s.startTickerLocked(caption)
	}
}

func (s *SyncService) startTickerLocked(caption Caption) {
	ctx, cancel := context.WithCancel(context.Background())
	s.tickerCancel = cancel

	ticker := NewCaptionTicker(caption, s.conf.Sync.CaptionInterval, s.now, func(text string) {
		if ctx.Err() != nil {
			return
		}
		s.setCaption(text)
	})

	s.tickers.Add(1)
	go func() {
		defer s.tickers.Done()
		ticker.Run(ctx)
	}()
}

func (s *SyncService) stopTicker() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tickerCancel != nil {
		s.tickerCancel()
		s.tickerCancel = nil
	}
}

func (s *SyncService) setCaption(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.caption == text {
		return
	}
	s.caption = text
	s.publishLocked()
}

func (s *SyncService) History() models.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(models.History{}, s.records...)
}

func (s *SyncService) Groups() []models.HistoryGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.HistoryGroup(nil), s.groups...)
}

func (s *SyncService) Caption() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.caption
}

// Attempted reports whether any sync cycle has completed.
func (s *SyncService) Attempted() bool {
	return s.attempted.Load()
}

func (s *SyncService) View() HistoryView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *SyncService) viewLocked() HistoryView {
	return HistoryView{
		Attempted: s.attempted.Load(),
		Caption:   s.caption,
		Records:   append(models.History{}, s.records...),
		Groups:    append([]models.HistoryGroup(nil), s.groups...),
	}
}

func (s *SyncService) Subscribe() (<-chan HistoryView, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan HistoryView, viewBuffer)
	s.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subscribers[id]; ok {
				delete(s.subscribers, id)
				close(sub)
			}
		})
	}
}

func (s *SyncService) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	view := s.viewLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- view:
		default:
		}
	}
}

// Close cancels triggered cycles, stops the caption ticker and ends all
// subscriptions.
func (s *SyncService) Close() {
	s.cancel()
	s.inFlight.Wait()
	s.stopTicker()
	s.tickers.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ch := range s.subscribers {
		delete(s.subscribers, id)
		close(ch)
	}
}
