package controllers

import (
	"encoding/json"
	"launchpad/internal/registration"
	"launchpad/internal/testutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registrationFixture struct {
	controller *RegistrationController
	tracker    *registration.Tracker
	platform   *registration.BridgePlatform
	submitter  *testutil.MockSubmitter
	settings   *testutil.MockSettings
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()
	f := &registrationFixture{
		platform:  registration.NewBridgePlatform(),
		submitter: testutil.NewMockSubmitter(),
		settings:  &testutil.MockSettings{},
	}
	logger := &testutil.MockLogger{}
	f.tracker = registration.NewTracker(f.platform, f.settings, f.submitter, logger, &testutil.MockMetrics{})
	t.Cleanup(f.tracker.Close)
	f.controller = NewRegistrationController(logger, f.tracker, f.platform)
	return f
}

func post(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rr
}

func TestGetState_Initial(t *testing.T) {
	f := newRegistrationFixture(t)

	rr := httptest.NewRecorder()
	f.controller.GetState(rr, httptest.NewRequest(http.MethodGet, "/state", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["is_registered"])
	assert.Nil(t, resp["last_registration_succeeded"])
	assert.Equal(t, "unregistered", resp["status"])
}

func TestPlatformToken_RegistersAndSubmits(t *testing.T) {
	f := newRegistrationFixture(t)

	rr := post(f.controller.PlatformToken, "/platform/token", `{"token":"0AFF10"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	select {
	case token := <-f.submitter.Done:
		assert.Equal(t, "0aff10", token)
	case <-time.After(time.Second):
		t.Fatal("token was not submitted")
	}

	state := f.tracker.Snapshot()
	assert.True(t, state.IsRegistered)
	assert.Equal(t, "0aff10", state.DeviceToken)
}

func TestPlatformToken_BadToken(t *testing.T) {
	f := newRegistrationFixture(t)

	assert.Equal(t, http.StatusBadRequest, post(f.controller.PlatformToken, "/platform/token", `{"token":"xyz"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(f.controller.PlatformToken, "/platform/token", `{"token":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(f.controller.PlatformToken, "/platform/token", `nope`).Code)
}

func TestPlatformFailure_ThenConsumeOutcome(t *testing.T) {
	f := newRegistrationFixture(t)

	rr := post(f.controller.PlatformFailure, "/platform/failure", `{"error":"no entitlement"}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "failed", f.tracker.Snapshot().Status())

	rr = post(f.controller.ConsumeOutcome, "/registration/outcome", "")
	assert.JSONEq(t, `{"outcome":false}`, rr.Body.String())

	rr = post(f.controller.ConsumeOutcome, "/registration/outcome", "")
	assert.JSONEq(t, `{"outcome":null}`, rr.Body.String())
}

func TestPlatformStatus_UpdatesTracker(t *testing.T) {
	f := newRegistrationFixture(t)

	rr := post(f.controller.PlatformStatus, "/platform/status", `{"registered":true,"permission":true}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.True(t, f.tracker.Snapshot().IsRegistered)
	assert.True(t, f.platform.IsRegistered())
}

func TestRequestRegistration_Denied(t *testing.T) {
	f := newRegistrationFixture(t)

	rr := post(f.controller.RequestRegistration, "/registration/request", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 0, f.platform.DrainRequests())
}

func TestRequestRegistration_QueuesPlatformRequest(t *testing.T) {
	f := newRegistrationFixture(t)
	f.platform.Report(false, true)

	rr := post(f.controller.RequestRegistration, "/registration/request", "")
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "registering", f.tracker.Snapshot().Status())

	rr = httptest.NewRecorder()
	f.controller.PlatformRequests(rr, httptest.NewRequest(http.MethodGet, "/platform/requests", nil))
	assert.JSONEq(t, `{"register":1}`, rr.Body.String())

	rr = httptest.NewRecorder()
	f.controller.PlatformRequests(rr, httptest.NewRequest(http.MethodGet, "/platform/requests", nil))
	assert.JSONEq(t, `{"register":0}`, rr.Body.String())
}
