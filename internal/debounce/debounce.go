// Package debounce converts noisy raw digital input samples into clean
// stable transitions. It has NO external dependencies (no GPIO, OS, or
// time.Sleep). Time is always injectable via time.Time parameters.
package debounce

import "time"

// Transition is a committed change in an input's stable level.
// Levels are raw electrical levels: true = high, false = low.
type Transition struct {
	From bool
	To   bool
}

// Pressed reports whether the transition is a falling edge. The press
// buttons are wired active-low through pull-ups, so a high-to-low
// transition is a button press.
func (t Transition) Pressed() bool {
	return t.From && !t.To
}

// Debouncer tracks one input channel. A new raw level must hold unchanged
// for the full quiet window before it is committed as the stable level.
type Debouncer struct {
	window     time.Duration
	lastRaw    bool
	lastChange time.Time
	stable     bool
	primed     bool // first sample seen
	baselined  bool // initial stable level committed
}

// New creates a Debouncer with the given quiet window.
func New(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Sample accepts a new raw reading and the current time. now must be
// monotonically non-decreasing across calls. It returns a Transition only
// when stability is freshly achieved at a level differing from the stored
// stable level; otherwise nil.
//
// Every raw level change restarts the quiet window, not just the first
// bounce. The first level to survive a full window becomes the baseline
// and is committed silently, so the boot-time level never reads as an edge.
func (d *Debouncer) Sample(raw bool, now time.Time) *Transition {
	if !d.primed {
		d.primed = true
		d.lastRaw = raw
		d.lastChange = now
		return nil
	}

	if raw != d.lastRaw {
		d.lastRaw = raw
		d.lastChange = now
		return nil
	}

	if now.Sub(d.lastChange) < d.window {
		return nil
	}

	if !d.baselined {
		d.baselined = true
		d.stable = raw
		return nil
	}

	if d.stable == raw {
		return nil
	}

	from := d.stable
	d.stable = raw
	return &Transition{From: from, To: raw}
}

// Stable returns the committed stable level and whether a baseline has
// been established yet.
func (d *Debouncer) Stable() (level bool, baselined bool) {
	return d.stable, d.baselined
}
