// Package press contains the pure press state machine and the canonical
// stop-reason set. It has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package press

import "time"

// State represents the operating state of the press.
type State string

const (
	StateIdle             State = "IDLE"
	StateRunning          State = "RUNNING"
	StateWaitingForReason State = "WAITING_FOR_REASON"
)

// EventType identifies a state transition event reported to the backend.
type EventType string

const (
	EventStarted        EventType = "STARTED"
	EventStopped        EventType = "STOPPED"
	EventReasonSelected EventType = "REASON_SELECTED"
)

// Event represents a committed transition to be emitted.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State // state after the transition
	Reason    Reason
	// Runtime is the duration of the completed run, valid only when
	// HasRuntime is set (a stop with a recorded start in the same run).
	Runtime    time.Duration
	HasRuntime bool
}

// Machine owns the authoritative press state. It is not safe for concurrent
// use; the control loop is its single owner.
type Machine struct {
	state     State
	startTime time.Time
	stopTime  time.Time
	hasStart  bool
	hasStop   bool
}

// NewMachine creates a Machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{state: StateIdle}
}

// State returns the current operating state.
func (m *Machine) State() State {
	return m.state
}

// PressStartStop handles a debounced Start/Stop press. It returns the
// resulting event, or nil when the press is ignored (WaitingForReason has
// no Start/Stop transition defined).
func (m *Machine) PressStartStop(now time.Time) *Event {
	switch m.state {
	case StateIdle:
		m.state = StateRunning
		m.startTime = now
		m.hasStart = true
		m.hasStop = false
		return &Event{Timestamp: now, Type: EventStarted, State: m.state}

	case StateRunning:
		m.state = StateWaitingForReason
		m.stopTime = now
		m.hasStop = true
		ev := &Event{Timestamp: now, Type: EventStopped, State: m.state}
		ev.Runtime, ev.HasRuntime = m.Runtime()
		return ev
	}
	return nil
}

// SelectReason handles a reason selection, from a local button or a remote
// command. It is accepted only in WaitingForReason; in any other state it
// is a no-op and returns nil.
func (m *Machine) SelectReason(reason Reason, now time.Time) *Event {
	if m.state != StateWaitingForReason {
		return nil
	}
	m.state = StateIdle
	ev := &Event{Timestamp: now, Type: EventReasonSelected, State: m.state, Reason: reason}
	ev.Runtime, ev.HasRuntime = m.Runtime()
	return ev
}

// Runtime returns the duration of the last completed run (stop minus
// start). It is valid only when both timestamps were recorded in the same
// run; otherwise it returns (0, false).
func (m *Machine) Runtime() (time.Duration, bool) {
	if !m.hasStart || !m.hasStop {
		return 0, false
	}
	return m.stopTime.Sub(m.startTime), true
}
