package led

import (
	"testing"

	"github.com/atouliatos/press-controller/internal/press"
)

func TestIdleRedSolid(t *testing.T) {
	for _, phase := range []bool{false, true} {
		p := ForState(press.StateIdle, phase)
		if !p.Red || p.Green {
			t.Errorf("idle phase=%v: got %+v, want red solid green off", phase, p)
		}
	}
}

func TestRunningGreenBlinks(t *testing.T) {
	on := ForState(press.StateRunning, true)
	off := ForState(press.StateRunning, false)
	if on.Red || off.Red {
		t.Error("running: red must stay off")
	}
	if !on.Green || off.Green {
		t.Errorf("running: green must follow phase, got on=%+v off=%+v", on, off)
	}
}

func TestWaitingAlternates(t *testing.T) {
	a := ForState(press.StateWaitingForReason, true)
	b := ForState(press.StateWaitingForReason, false)
	if a.Red == a.Green {
		t.Errorf("waiting: LEDs must alternate, got %+v", a)
	}
	if a.Red == b.Red || a.Green == b.Green {
		t.Errorf("waiting: phases must flip both LEDs, got %+v then %+v", a, b)
	}
}
