package registration

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"launchpad/internal/backend"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"sync"
	"time"
)

var ErrPermissionDenied = errors.New("notification permission denied")

const subscriberBuffer = 16

// Change is published to subscribers after every state mutation. Alert is set
// on the transition into a failed registration.
type Change struct {
	State models.RegistrationState
	Alert bool
}

type TrackerInterface interface {
	Snapshot() models.RegistrationState
	Subscribe() (<-chan Change, func())
	Foreground()
	OnRegistered(token []byte)
	OnRegistrationFailed(err error)
	ConsumeOutcome() models.Outcome
	RequestRegistration(ctx context.Context) error
	Bootstrap()
	Close()
}

// Tracker owns the in-memory registration state. Readers get copies.
type Tracker struct {
	mu          sync.Mutex
	state       models.RegistrationState
	subscribers map[int]chan Change
	nextID      int

	platform  Platform
	settings  providers.SettingsProviderInterface
	submitter backend.TokenSubmitterInterface
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface

	persistMu sync.Mutex

	ctx     context.Context
	cancel  context.CancelFunc
	submits sync.WaitGroup
	now     func() time.Time
}

func NewTracker(
	platform Platform,
	settings providers.SettingsProviderInterface,
	submitter backend.TokenSubmitterInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) *Tracker {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Tracker{
		subscribers: make(map[int]chan Change),
		platform:    platform,
		settings:    settings,
		submitter:   submitter,
		logger:      logger,
		metrics:     metrics,
		ctx:         ctx,
		cancel:      cancel,
		now:         time.Now,
	}

	t.state.DeviceToken = settings.DeviceToken()
	if at, ok := settings.LastRegistered(); ok {
		t.state.LastRegisteredAt = &at
	}
	t.state.IsRegistered = platform.IsRegistered()
	metrics.SetRegistered(t.state.IsRegistered)
	return t
}

func (t *Tracker) Snapshot() models.RegistrationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

func (t *Tracker) snapshotLocked() models.RegistrationState {
	s := t.state
	if s.LastRegisteredAt != nil {
		at := *s.LastRegisteredAt
		s.LastRegisteredAt = &at
	}
	return s
}

// Subscribe returns a channel of state changes and a function that ends the
// subscription. Changes are dropped for a subscriber whose buffer is full.
func (t *Tracker) Subscribe() (<-chan Change, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextID
	t.nextID++
	ch := make(chan Change, subscriberBuffer)
	t.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			if sub, ok := t.subscribers[id]; ok {
				delete(t.subscribers, id)
				close(sub)
			}
		})
	}
}

func (t *Tracker) publishLocked(alert bool) {
	change := Change{State: t.snapshotLocked(), Alert: alert}
	for id, ch := range t.subscribers {
		select {
		case ch <- change:
		default:
			t.logger.Warnf(providers.TypeRegistration, "Subscriber %d is behind, change dropped", id)
		}
	}
}

// Foreground re-reads the platform registration status. The last outcome is
// left as it is.
func (t *Tracker) Foreground() {
	registered := t.platform.IsRegistered()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.metrics.SetRegistered(registered)
	if t.state.IsRegistered == registered {
		return
	}
	t.state.IsRegistered = registered
	t.publishLocked(false)
}

// OnRegistered handles the platform success callback with the raw device token.
// The settings write happens after the new state is published.
func (t *Tracker) OnRegistered(token []byte) {
	hexToken := hex.EncodeToString(token)

	t.mu.Lock()
	if hexToken == t.state.DeviceToken {
		t.logger.Debugf(providers.TypeRegistration, "Device token unchanged, skipping submission")
		if t.state.Pending {
			t.state.Pending = false
			t.publishLocked(false)
		}
		t.mu.Unlock()
		return
	}

	now := t.now()
	t.state.DeviceToken = hexToken
	t.state.LastRegisteredAt = &now
	t.state.LastRegistrationSucceeded = models.OutcomeSucceeded
	t.state.IsRegistered = true
	t.state.Pending = false
	t.metrics.SetRegistered(true)
	t.publishLocked(false)
	t.mu.Unlock()

	t.logger.Infof(providers.TypeRegistration, "Registered for push notifications")
	t.persist(hexToken, now)
	t.submit(hexToken)
}

func (t *Tracker) persist(token string, at time.Time) {
	t.persistMu.Lock()
	defer t.persistMu.Unlock()
	if err := t.settings.SaveRegistration(token, at); err != nil {
		t.logger.Errorf(providers.TypeRegistration, "Unable to persist device token: %s", err)
	}
}

func (t *Tracker) submit(token string) {
	t.submits.Add(1)
	go func() {
		defer t.submits.Done()
		if err := t.submitter.Submit(t.ctx, token); err != nil {
			t.logger.Errorf(providers.TypeRegistration, "Unable to submit device token: %s", err)
		}
	}()
}

// OnRegistrationFailed handles the platform failure callback. IsRegistered is
// not touched.
func (t *Tracker) OnRegistrationFailed(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.logger.Warnf(providers.TypeRegistration, "Push registration failed: %v", err)

	alert := t.state.LastRegistrationSucceeded != models.OutcomeFailed
	t.state.LastRegistrationSucceeded = models.OutcomeFailed
	t.state.Pending = false
	t.publishLocked(alert)
}

// ConsumeOutcome returns the last outcome and resets it to unknown.
func (t *Tracker) ConsumeOutcome() models.Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	outcome := t.state.LastRegistrationSucceeded
	if outcome != models.OutcomeUnknown {
		t.state.LastRegistrationSucceeded = models.OutcomeUnknown
		t.publishLocked(false)
	}
	return outcome
}

// RequestRegistration asks for notification permission and, when granted,
// starts a platform registration.
func (t *Tracker) RequestRegistration(ctx context.Context) error {
	granted, err := t.platform.RequestPermission(ctx)
	if err != nil {
		return fmt.Errorf("requesting permission: %w", err)
	}
	if !granted {
		t.logger.Infof(providers.TypeRegistration, "Notification permission denied")
		return ErrPermissionDenied
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err = t.platform.Register(); err != nil {
		return fmt.Errorf("registering with platform: %w", err)
	}
	t.state.Pending = true
	t.publishLocked(false)
	return nil
}

// Bootstrap refreshes the token at launch when a previous registration is
// still valid on the platform.
func (t *Tracker) Bootstrap() {
	t.mu.Lock()
	hasToken := t.state.DeviceToken != ""
	t.mu.Unlock()

	if !hasToken || !t.platform.IsRegistered() {
		return
	}
	if err := t.platform.Register(); err != nil {
		t.logger.Warnf(providers.TypeRegistration, "Unable to refresh registration: %s", err)
		return
	}
	t.logger.Infof(providers.TypeRegistration, "Refreshing existing registration")
}

// Close cancels in-flight token submissions, waits for them and ends all
// subscriptions.
func (t *Tracker) Close() {
	t.cancel()
	t.submits.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()
	for id, ch := range t.subscribers {
		delete(t.subscribers, id)
		close(ch)
	}
}
