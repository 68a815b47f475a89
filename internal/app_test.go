package internal

import (
	"launchpad/internal/models"
	"launchpad/internal/registration"
	"launchpad/internal/testutil"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchRegistration_LogsAlertsOnly(t *testing.T) {
	changes := make(chan registration.Change, 3)
	changes <- registration.Change{State: models.RegistrationState{IsRegistered: true}}
	changes <- registration.Change{Alert: true}
	changes <- registration.Change{}
	close(changes)

	logger := &testutil.MockLogger{}
	watchRegistration(changes, logger)

	assert.Equal(t, 1, logger.Count("error"))
}
