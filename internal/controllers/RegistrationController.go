package controllers

import (
	"encoding/hex"
	"errors"
	"launchpad/internal/models"
	"launchpad/internal/providers"
	"launchpad/internal/registration"
	"net/http"
	"strings"
)

// RegistrationController serves the registration state and receives the
// platform callbacks relayed by the shim.
type RegistrationController struct {
	logger   providers.Logger
	tracker  registration.TrackerInterface
	platform *registration.BridgePlatform
}

func NewRegistrationController(logger providers.Logger, tracker registration.TrackerInterface, platform *registration.BridgePlatform) *RegistrationController {
	return &RegistrationController{logger: logger, tracker: tracker, platform: platform}
}

type stateResponse struct {
	models.RegistrationState
	Status string `json:"status"`
}

type outcomeResponse struct {
	Outcome models.Outcome `json:"outcome"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type failureRequest struct {
	Error string `json:"error"`
}

type statusRequest struct {
	Registered bool `json:"registered"`
	Permission bool `json:"permission"`
}

type requestsResponse struct {
	Register int `json:"register"`
}

func (rc *RegistrationController) GetState(w http.ResponseWriter, r *http.Request) {
	state := rc.tracker.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{RegistrationState: state, Status: state.Status()})
}

func (rc *RegistrationController) ConsumeOutcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, outcomeResponse{Outcome: rc.tracker.ConsumeOutcome()})
}

func (rc *RegistrationController) RequestRegistration(w http.ResponseWriter, r *http.Request) {
	err := rc.tracker.RequestRegistration(r.Context())
	switch {
	case errors.Is(err, registration.ErrPermissionDenied):
		http.Error(w, "Permission Denied", http.StatusForbidden)
	case err != nil:
		rc.logger.Errorf(providers.TypeRegistration, "Registration request failed: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusAccepted)
	}
}

func (rc *RegistrationController) PlatformToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, err := hex.DecodeString(strings.TrimSpace(req.Token))
	if err != nil || len(token) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	rc.tracker.OnRegistered(token)
	w.WriteHeader(http.StatusNoContent)
}

func (rc *RegistrationController) PlatformFailure(w http.ResponseWriter, r *http.Request) {
	var req failureRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Error == "" {
		req.Error = "registration failed"
	}
	rc.tracker.OnRegistrationFailed(errors.New(req.Error))
	w.WriteHeader(http.StatusNoContent)
}

func (rc *RegistrationController) PlatformStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	rc.platform.Report(req.Registered, req.Permission)
	rc.tracker.Foreground()
	w.WriteHeader(http.StatusNoContent)
}

func (rc *RegistrationController) PlatformRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, requestsResponse{Register: rc.platform.DrainRequests()})
}
