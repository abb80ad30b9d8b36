//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealDevice drives actual hardware through the Linux GPIO character device.
type RealDevice struct {
	chip    *gpiocdev.Chip
	buttons [NumButtons]*gpiocdev.Line
	red     *gpiocdev.Line
	green   *gpiocdev.Line
}

// NewRealDevice opens the GPIO chip and requests every button line as an
// input with pull-up (buttons short to ground when pressed) and both LED
// lines as outputs. Initial LED state is red on, green off (idle).
func NewRealDevice(pins Pins) (*RealDevice, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	d := &RealDevice{chip: chip}

	inputs := [NumButtons]int{
		ButtonStartStop:   pins.StartStop,
		ButtonMaintenance: pins.Maintenance,
		ButtonQuality:     pins.Quality,
		ButtonMaterial:    pins.Material,
		ButtonToolChange:  pins.ToolChange,
	}
	for b, pin := range inputs {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", Button(b), pin, err)
		}
		d.buttons[b] = line
	}

	d.red, err = chip.RequestLine(pins.RedLED, gpiocdev.AsOutput(1))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request red LED pin %d: %w", pins.RedLED, err)
	}
	d.green, err = chip.RequestLine(pins.GreenLED, gpiocdev.AsOutput(0))
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("request green LED pin %d: %w", pins.GreenLED, err)
	}

	return d, nil
}

// Read returns the raw level of every button.
func (d *RealDevice) Read() (Levels, error) {
	var levels Levels
	for b, line := range d.buttons {
		v, err := line.Value()
		if err != nil {
			return levels, fmt.Errorf("read %s pin: %w", Button(b), err)
		}
		levels[b] = v != 0
	}
	return levels, nil
}

// SetLEDs drives the indicator LEDs.
func (d *RealDevice) SetLEDs(red, green bool) error {
	if err := d.red.SetValue(boolToValue(red)); err != nil {
		return fmt.Errorf("set red LED: %w", err)
	}
	if err := d.green.SetValue(boolToValue(green)); err != nil {
		return fmt.Errorf("set green LED: %w", err)
	}
	return nil
}

// Close releases GPIO resources. LEDs are switched off and button lines
// are left as inputs with pull-up so a restart sees the same wiring state.
func (d *RealDevice) Close() error {
	var errs []error

	if d.red != nil {
		d.red.SetValue(0)
		if err := d.red.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close red LED: %w", err))
		}
	}
	if d.green != nil {
		d.green.SetValue(0)
		if err := d.green.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close green LED: %w", err))
		}
	}
	for b, line := range d.buttons {
		if line == nil {
			continue
		}
		if err := line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s pin: %w", Button(b), err))
		}
	}
	if d.chip != nil {
		if err := d.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func boolToValue(on bool) int {
	if on {
		return 1
	}
	return 0
}
