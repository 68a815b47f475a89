package registration

import (
	"context"
	"sync"
)

// Platform is the OS push-registration capability. Results of Register arrive
// later through Tracker.OnRegistered or Tracker.OnRegistrationFailed.
type Platform interface {
	IsRegistered() bool
	RequestPermission(ctx context.Context) (bool, error)
	Register() error
}

// BridgePlatform is driven by a local shim process. The shim reports what the
// OS says about registration and permission, and drains the register requests
// queued here.
type BridgePlatform struct {
	mu         sync.Mutex
	registered bool
	permission bool
	requests   int
}

func NewBridgePlatform() *BridgePlatform {
	return &BridgePlatform{}
}

// Report records the platform truth as seen by the shim.
func (b *BridgePlatform) Report(registered, permission bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.registered = registered
	b.permission = permission
}

func (b *BridgePlatform) IsRegistered() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.registered
}

// RequestPermission answers from the last shim report. Without a report the
// permission counts as denied.
func (b *BridgePlatform) RequestPermission(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.permission, nil
}

func (b *BridgePlatform) Register() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests++
	return nil
}

// DrainRequests returns how many registrations were requested since the last
// call and resets the counter.
func (b *BridgePlatform) DrainRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := b.requests
	b.requests = 0
	return n
}
