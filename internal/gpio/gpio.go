// Package gpio provides button input reading and LED output with hardware
// abstraction. The real implementation uses the Linux GPIO character
// device. The fake implementation allows testing without hardware.
package gpio

// Button identifies one physical control. The declaration order is the
// input scan order: when several buttons reach a stable edge in the same
// polling cycle, the lowest-numbered one wins.
type Button int

const (
	ButtonStartStop Button = iota
	ButtonMaintenance
	ButtonQuality
	ButtonMaterial
	ButtonToolChange

	NumButtons = 5
)

// String returns the button name for logging.
func (b Button) String() string {
	switch b {
	case ButtonStartStop:
		return "start_stop"
	case ButtonMaintenance:
		return "maintenance"
	case ButtonQuality:
		return "quality"
	case ButtonMaterial:
		return "material"
	case ButtonToolChange:
		return "tool_change"
	}
	return "unknown"
}

// Levels holds one raw sample of every button, indexed by Button.
// Levels are raw electrical levels: the buttons are active-low through
// internal pull-ups, so an unpressed button reads high (true).
type Levels [NumButtons]bool

// Device reads button levels and drives the indicator LEDs.
type Device interface {
	// Read returns the raw level of every button.
	Read() (Levels, error)

	// SetLEDs drives the red and green indicator LEDs.
	SetLEDs(red, green bool) error

	// Close releases GPIO resources.
	Close() error
}

// Pins holds the GPIO line numbers for every input and output.
type Pins struct {
	StartStop   int
	Maintenance int
	Quality     int
	Material    int
	ToolChange  int
	RedLED      int
	GreenLED    int
}

// DefaultPins are the wiring defaults of the press control panel.
var DefaultPins = Pins{
	StartStop:   15,
	Maintenance: 5,
	Quality:     21,
	Material:    12,
	ToolChange:  13,
	RedLED:      2,
	GreenLED:    4,
}
