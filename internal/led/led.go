// Package led maps press states to indicator LED patterns. Pure logic; the
// control loop advances the blink phase and drives the GPIO writer.
package led

import "github.com/atouliatos/press-controller/internal/press"

// Pattern is the desired level of each indicator LED.
type Pattern struct {
	Red   bool
	Green bool
}

// ForState returns the LED pattern for a state at the given blink phase.
// Idle: red solid. Running: green blinking. WaitingForReason: red and green
// alternating.
func ForState(state press.State, phase bool) Pattern {
	switch state {
	case press.StateRunning:
		return Pattern{Green: phase}
	case press.StateWaitingForReason:
		return Pattern{Red: phase, Green: !phase}
	default:
		return Pattern{Red: true}
	}
}
