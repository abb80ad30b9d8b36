package gpio

import (
	"errors"
	"testing"
)

func TestFakeDeviceDefaultsHigh(t *testing.T) {
	f := NewFakeDevice()
	levels, err := f.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	for b := Button(0); b < NumButtons; b++ {
		if !levels[b] {
			t.Errorf("%s: got low, want high (released through pull-up)", b)
		}
	}
}

func TestFakeDevicePressRelease(t *testing.T) {
	f := NewFakeDevice()

	f.Press(ButtonQuality)
	levels, _ := f.Read()
	if levels[ButtonQuality] {
		t.Error("pressed button should read low")
	}
	if !levels[ButtonStartStop] {
		t.Error("other buttons should stay high")
	}

	f.Release(ButtonQuality)
	levels, _ = f.Read()
	if !levels[ButtonQuality] {
		t.Error("released button should read high")
	}
}

func TestFakeDeviceLEDs(t *testing.T) {
	f := NewFakeDevice()
	if err := f.SetLEDs(true, false); err != nil {
		t.Fatalf("SetLEDs: %v", err)
	}
	red, green := f.LEDs()
	if !red || green {
		t.Errorf("LEDs: got (%v,%v), want (true,false)", red, green)
	}
	if f.LEDWrites != 1 {
		t.Errorf("LEDWrites: got %d, want 1", f.LEDWrites)
	}
}

func TestFakeDeviceReadError(t *testing.T) {
	f := NewFakeDevice()
	f.ReadError = errors.New("boom")
	if _, err := f.Read(); err == nil {
		t.Error("expected read error")
	}
}

func TestFakeDeviceClose(t *testing.T) {
	f := NewFakeDevice()
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !f.Closed {
		t.Error("expected Closed=true")
	}
}

func TestButtonString(t *testing.T) {
	names := map[Button]string{
		ButtonStartStop:   "start_stop",
		ButtonMaintenance: "maintenance",
		ButtonQuality:     "quality",
		ButtonMaterial:    "material",
		ButtonToolChange:  "tool_change",
	}
	for b, want := range names {
		if got := b.String(); got != want {
			t.Errorf("Button(%d).String(): got %q, want %q", b, got, want)
		}
	}
}
