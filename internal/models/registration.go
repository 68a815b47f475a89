package models

import (
	"time"

	json "github.com/goccy/go-json"
)

// Outcome is the result of the most recent registration attempt.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Bool maps the outcome to an optional boolean, nil meaning unknown.
func (o Outcome) Bool() *bool {
	if o == OutcomeUnknown {
		return nil
	}
	b := o == OutcomeSucceeded
	return &b
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Bool())
}

// RegistrationState is a point-in-time copy of the push registration status.
type RegistrationState struct {
	IsRegistered              bool       `json:"is_registered"`
	LastRegisteredAt          *time.Time `json:"last_registered_at,omitempty"`
	LastRegistrationSucceeded Outcome    `json:"last_registration_succeeded"`
	DeviceToken               string     `json:"device_token,omitempty"`
	Pending                   bool       `json:"pending"`
}

// Status names the state machine position the snapshot corresponds to.
func (s RegistrationState) Status() string {
	switch {
	case s.Pending:
		return "registering"
	case s.LastRegistrationSucceeded == OutcomeFailed:
		return "failed"
	case s.IsRegistered:
		return "registered"
	default:
		return "unregistered"
	}
}
