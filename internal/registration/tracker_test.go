package registration

import (
	"context"
	"errors"
	"launchpad/internal/models"
	"launchpad/internal/testutil"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackerFixture struct {
	tracker   *Tracker
	platform  *testutil.MockPlatform
	settings  *testutil.MockSettings
	submitter *testutil.MockSubmitter
	logger    *testutil.MockLogger
	metrics   *testutil.MockMetrics
}

func newFixture(t *testing.T, settings *testutil.MockSettings) *trackerFixture {
	t.Helper()
	if settings == nil {
		settings = &testutil.MockSettings{}
	}
	f := &trackerFixture{
		platform:  &testutil.MockPlatform{},
		settings:  settings,
		submitter: testutil.NewMockSubmitter(),
		logger:    &testutil.MockLogger{},
		metrics:   &testutil.MockMetrics{},
	}
	f.tracker = NewTracker(f.platform, f.settings, f.submitter, f.logger, f.metrics)
	t.Cleanup(f.tracker.Close)
	return f
}

func waitSubmitted(t *testing.T, s *testutil.MockSubmitter) string {
	t.Helper()
	select {
	case token := <-s.Done:
		return token
	case <-time.After(2 * time.Second):
		t.Fatal("token was not submitted")
		return ""
	}
}

func nextChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c := <-ch:
		return c
	case <-time.After(time.Second):
		t.Fatal("no change published")
		return Change{}
	}
}

func TestNewTracker_LoadsPersistedSettings(t *testing.T) {
	at := time.Unix(1700000000, 0)
	f := newFixture(t, &testutil.MockSettings{Token: "abcd", At: at, HasAt: true})

	state := f.tracker.Snapshot()
	assert.Equal(t, "abcd", state.DeviceToken)
	require.NotNil(t, state.LastRegisteredAt)
	assert.True(t, state.LastRegisteredAt.Equal(at))
	assert.Equal(t, models.OutcomeUnknown, state.LastRegistrationSucceeded)
	assert.Equal(t, "unregistered", state.Status())
}

func TestTracker_Foreground_ReadsPlatform(t *testing.T) {
	f := newFixture(t, nil)
	ch, unsubscribe := f.tracker.Subscribe()
	defer unsubscribe()

	f.platform.SetRegistered(true)
	f.tracker.Foreground()

	change := nextChange(t, ch)
	assert.True(t, change.State.IsRegistered)
	assert.False(t, change.Alert)
	assert.True(t, f.metrics.Registered)

	f.platform.SetRegistered(false)
	f.tracker.Foreground()
	assert.False(t, f.tracker.Snapshot().IsRegistered)
}

func TestTracker_Foreground_KeepsOutcome(t *testing.T) {
	f := newFixture(t, nil)
	f.tracker.OnRegistrationFailed(errors.New("no network"))

	f.platform.SetRegistered(true)
	f.tracker.Foreground()

	state := f.tracker.Snapshot()
	assert.True(t, state.IsRegistered)
	assert.Equal(t, models.OutcomeFailed, state.LastRegistrationSucceeded)
}

func TestTracker_OnRegistered_NewToken(t *testing.T) {
	f := newFixture(t, nil)
	ch, unsubscribe := f.tracker.Subscribe()
	defer unsubscribe()

	f.tracker.OnRegistered([]byte{0x0a, 0xff, 0x10})

	assert.Equal(t, "0aff10", waitSubmitted(t, f.submitter))

	change := nextChange(t, ch)
	assert.True(t, change.State.IsRegistered)
	assert.Equal(t, "0aff10", change.State.DeviceToken)
	assert.Equal(t, models.OutcomeSucceeded, change.State.LastRegistrationSucceeded)
	require.NotNil(t, change.State.LastRegisteredAt)

	assert.Equal(t, "0aff10", f.settings.DeviceToken())
	_, ok := f.settings.LastRegistered()
	assert.True(t, ok)
}

func TestTracker_OnRegistered_PersistsOutsideLock(t *testing.T) {
	settings := &testutil.MockSettings{SaveBlock: make(chan struct{})}
	f := newFixture(t, settings)

	done := make(chan struct{})
	go func() {
		f.tracker.OnRegistered([]byte{0xbe, 0xef})
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return f.tracker.Snapshot().DeviceToken == "beef"
	}, time.Second, 5*time.Millisecond)
	assert.True(t, f.tracker.Snapshot().IsRegistered)
	assert.Empty(t, f.settings.DeviceToken())

	close(settings.SaveBlock)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("OnRegistered did not return")
	}
	assert.Equal(t, "beef", f.settings.DeviceToken())
	assert.Equal(t, "beef", waitSubmitted(t, f.submitter))
}

func TestTracker_OnRegistered_SameTokenIsIgnored(t *testing.T) {
	f := newFixture(t, &testutil.MockSettings{Token: "0aff10"})

	f.tracker.OnRegistered([]byte{0x0a, 0xff, 0x10})
	f.tracker.Close()

	assert.Empty(t, f.submitter.Submitted())
	assert.Zero(t, f.settings.SaveCalls)
	assert.Equal(t, models.OutcomeUnknown, f.tracker.Snapshot().LastRegistrationSucceeded)
}

func TestTracker_OnRegistered_RepeatedCallbackSubmitsOnce(t *testing.T) {
	f := newFixture(t, nil)

	f.tracker.OnRegistered([]byte{0x01})
	f.tracker.OnRegistered([]byte{0x01})
	f.tracker.Close()

	assert.Equal(t, []string{"01"}, f.submitter.Submitted())
}

func TestTracker_OnRegistered_SubmitFailureOnlyLogged(t *testing.T) {
	f := newFixture(t, nil)
	f.submitter.Err = models.ErrFetchFailed

	f.tracker.OnRegistered([]byte{0x02})
	waitSubmitted(t, f.submitter)
	f.tracker.Close()

	state := f.tracker.Snapshot()
	assert.Equal(t, models.OutcomeSucceeded, state.LastRegistrationSucceeded)
	assert.True(t, state.IsRegistered)
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestTracker_OnRegistered_SettingsFailureStillUpdatesState(t *testing.T) {
	f := newFixture(t, &testutil.MockSettings{SaveErr: errors.New("read-only")})

	f.tracker.OnRegistered([]byte{0x03})
	waitSubmitted(t, f.submitter)

	assert.Equal(t, "03", f.tracker.Snapshot().DeviceToken)
}

func TestTracker_OnRegistrationFailed_AlertsOncePerTransition(t *testing.T) {
	f := newFixture(t, nil)
	f.platform.SetRegistered(true)
	f.tracker.Foreground()

	ch, unsubscribe := f.tracker.Subscribe()
	defer unsubscribe()

	f.tracker.OnRegistrationFailed(errors.New("first"))
	first := nextChange(t, ch)
	assert.True(t, first.Alert)
	assert.True(t, first.State.IsRegistered)
	assert.Equal(t, models.OutcomeFailed, first.State.LastRegistrationSucceeded)

	f.tracker.OnRegistrationFailed(errors.New("second"))
	second := nextChange(t, ch)
	assert.False(t, second.Alert)

	assert.Equal(t, models.OutcomeFailed, f.tracker.ConsumeOutcome())
	nextChange(t, ch)

	f.tracker.OnRegistrationFailed(errors.New("third"))
	third := nextChange(t, ch)
	assert.True(t, third.Alert)
}

func TestTracker_ConsumeOutcome(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, models.OutcomeUnknown, f.tracker.ConsumeOutcome())

	f.tracker.OnRegistered([]byte{0x04})
	waitSubmitted(t, f.submitter)

	assert.Equal(t, models.OutcomeSucceeded, f.tracker.ConsumeOutcome())
	assert.Equal(t, models.OutcomeUnknown, f.tracker.ConsumeOutcome())
}

func TestTracker_RequestRegistration(t *testing.T) {
	f := newFixture(t, nil)

	err := f.tracker.RequestRegistration(context.Background())
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Zero(t, f.platform.Registers())

	f.platform.Permission = true
	require.NoError(t, f.tracker.RequestRegistration(context.Background()))
	assert.Equal(t, 1, f.platform.Registers())
	assert.Equal(t, "registering", f.tracker.Snapshot().Status())

	f.tracker.OnRegistered([]byte{0x05})
	waitSubmitted(t, f.submitter)
	assert.Equal(t, "registered", f.tracker.Snapshot().Status())
}

func TestTracker_RequestRegistration_PlatformErrors(t *testing.T) {
	f := newFixture(t, nil)
	f.platform.PermissionErr = errors.New("dialog dismissed")
	assert.Error(t, f.tracker.RequestRegistration(context.Background()))

	f.platform.PermissionErr = nil
	f.platform.Permission = true
	f.platform.RegisterErr = errors.New("unsupported")
	assert.Error(t, f.tracker.RequestRegistration(context.Background()))
	assert.False(t, f.tracker.Snapshot().Pending)
}

func TestTracker_Bootstrap(t *testing.T) {
	t.Run("no stored token", func(t *testing.T) {
		f := newFixture(t, nil)
		f.platform.SetRegistered(true)
		f.tracker.Bootstrap()
		assert.Zero(t, f.platform.Registers())
	})

	t.Run("platform not registered", func(t *testing.T) {
		f := newFixture(t, &testutil.MockSettings{Token: "aa"})
		f.tracker.Bootstrap()
		assert.Zero(t, f.platform.Registers())
	})

	t.Run("refreshes registration", func(t *testing.T) {
		f := newFixture(t, &testutil.MockSettings{Token: "aa"})
		f.platform.SetRegistered(true)
		f.tracker.Bootstrap()
		assert.Equal(t, 1, f.platform.Registers())
	})
}

func TestTracker_Subscribe_Unsubscribe(t *testing.T) {
	f := newFixture(t, nil)
	ch, unsubscribe := f.tracker.Subscribe()
	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)

	f.tracker.OnRegistrationFailed(errors.New("after unsubscribe"))
}

func TestTracker_SnapshotIsCopy(t *testing.T) {
	at := time.Unix(100, 0)
	f := newFixture(t, &testutil.MockSettings{Token: "aa", At: at, HasAt: true})

	snap := f.tracker.Snapshot()
	*snap.LastRegisteredAt = time.Unix(200, 0)

	assert.True(t, f.tracker.Snapshot().LastRegisteredAt.Equal(at))
}
