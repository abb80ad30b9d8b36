package gpio

import "sync"

// FakeDevice is a test double with settable button levels and recorded LED
// writes. Safe for concurrent use so tests can poke buttons while a control
// loop runs in another goroutine.
type FakeDevice struct {
	mu sync.Mutex

	levels Levels

	// Red and Green hold the last LED levels written.
	Red, Green bool

	// LEDWrites counts SetLEDs calls.
	LEDWrites int

	// ReadError, if set, will be returned by Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeDevice creates a FakeDevice with every button released (all
// levels high through the pull-ups).
func NewFakeDevice() *FakeDevice {
	f := &FakeDevice{}
	for b := range f.levels {
		f.levels[b] = true
	}
	return f
}

// Press pulls a button's level low.
func (f *FakeDevice) Press(b Button) {
	f.SetLevel(b, false)
}

// Release returns a button's level to high.
func (f *FakeDevice) Release(b Button) {
	f.SetLevel(b, true)
}

// SetLevel sets a button's raw level directly.
func (f *FakeDevice) SetLevel(b Button, level bool) {
	f.mu.Lock()
	f.levels[b] = level
	f.mu.Unlock()
}

// Read returns the current raw levels.
func (f *FakeDevice) Read() (Levels, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return Levels{}, f.ReadError
	}
	return f.levels, nil
}

// SetLEDs records the LED levels.
func (f *FakeDevice) SetLEDs(red, green bool) error {
	f.mu.Lock()
	f.Red = red
	f.Green = green
	f.LEDWrites++
	f.mu.Unlock()
	return nil
}

// LEDs returns the last LED levels written.
func (f *FakeDevice) LEDs() (red, green bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Red, f.Green
}

// Close marks the device as closed.
func (f *FakeDevice) Close() error {
	f.mu.Lock()
	f.Closed = true
	f.mu.Unlock()
	return nil
}
