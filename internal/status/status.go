// Package status provides a thread-safe status tracker for the
// press-controller daemon. It is written by the control loop and read by
// the HTTP diagnostic handlers.
package status

import (
	"sync"
	"time"

	"github.com/atouliatos/press-controller/internal/press"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	BlinkMs     int64
	HeartbeatMs int64
	RefreshMs   int64
	Broker      string
	BackendURL  string
	HTTPAddr    string
	DeviceID    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	State         press.State
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Authenticated bool
	IP            string
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			State:     press.StateIdle,
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetState sets the press state. Called by the control loop on every
// transition.
func (t *Tracker) SetState(state press.State) {
	t.mu.Lock()
	t.snap.State = state
	t.mu.Unlock()
}

// SetMQTTConnected sets the broker connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetAuthenticated records whether a backend credential is held.
func (t *Tracker) SetAuthenticated(authenticated bool) {
	t.mu.Lock()
	t.snap.Authenticated = authenticated
	t.mu.Unlock()
}

// SetIP sets the device IP address.
func (t *Tracker) SetIP(ip string) {
	t.mu.Lock()
	t.snap.IP = ip
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
