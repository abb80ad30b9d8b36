package debounce

import (
	"testing"
	"time"
)

const window = 50 * time.Millisecond

// settle primes a debouncer and commits the given level as baseline.
func settle(t *testing.T, d *Debouncer, level bool, now time.Time) time.Time {
	t.Helper()
	if tr := d.Sample(level, now); tr != nil {
		t.Fatalf("unexpected transition while priming: %+v", tr)
	}
	now = now.Add(window)
	if tr := d.Sample(level, now); tr != nil {
		t.Fatalf("unexpected transition at baseline: %+v", tr)
	}
	if _, baselined := d.Stable(); !baselined {
		t.Fatal("expected baseline after full window")
	}
	return now
}

func TestBaselineCommitsSilently(t *testing.T) {
	d := New(window)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	settle(t, d, true, now)

	level, baselined := d.Stable()
	if !baselined {
		t.Fatal("expected baselined")
	}
	if !level {
		t.Errorf("stable level: got low, want high")
	}
}

func TestTransitionAfterQuietWindow(t *testing.T) {
	d := New(window)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now = settle(t, d, true, now)

	// Level drops; window restarts.
	if tr := d.Sample(false, now.Add(time.Millisecond)); tr != nil {
		t.Fatalf("transition before window elapsed: %+v", tr)
	}
	// Still inside the window.
	if tr := d.Sample(false, now.Add(window)); tr != nil {
		t.Fatalf("transition inside window: %+v", tr)
	}

	tr := d.Sample(false, now.Add(time.Millisecond+window))
	if tr == nil {
		t.Fatal("expected transition after full quiet window")
	}
	if !tr.From || tr.To {
		t.Errorf("transition: got %+v, want high->low", tr)
	}
	if !tr.Pressed() {
		t.Error("high->low should be a press (active-low)")
	}
}

func TestTransitionEmittedExactlyOnce(t *testing.T) {
	d := New(window)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now = settle(t, d, true, now)

	d.Sample(false, now)
	if tr := d.Sample(false, now.Add(window)); tr == nil {
		t.Fatal("expected transition")
	}

	// Level holds; no further transitions.
	for i := 1; i <= 10; i++ {
		if tr := d.Sample(false, now.Add(window+time.Duration(i)*10*time.Millisecond)); tr != nil {
			t.Fatalf("iteration %d: unexpected repeat transition %+v", i, tr)
		}
	}
}

func TestBounceRestartsWindow(t *testing.T) {
	d := New(window)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now = settle(t, d, true, now)

	// Bounce: low, high, low, each inside the window.
	d.Sample(false, now.Add(10*time.Millisecond))
	d.Sample(true, now.Add(20*time.Millisecond))
	d.Sample(false, now.Add(30*time.Millisecond))

	// 50ms after the first drop but only 40ms after the last bounce:
	// the window restarted, so no transition yet.
	if tr := d.Sample(false, now.Add(60*time.Millisecond)); tr != nil {
		t.Fatalf("transition before window since last bounce: %+v", tr)
	}

	tr := d.Sample(false, now.Add(30*time.Millisecond+window))
	if tr == nil {
		t.Fatal("expected transition once level held for full window")
	}
	if tr.To {
		t.Errorf("transition target: got high, want low")
	}
}

// For any sequence of changes entirely within the window, at most one
// transition commits, and it reflects the final raw level.
func TestNoiseWithinWindowAtMostOneTransition(t *testing.T) {
	sequences := []struct {
		name   string
		levels []bool
		final  bool
	}{
		{"glitch low returns high", []bool{false, true, false, true}, true},
		{"noisy settle low", []bool{false, true, false, false}, false},
		{"single blip", []bool{false, true}, true},
	}

	for _, seq := range sequences {
		t.Run(seq.name, func(t *testing.T) {
			d := New(window)
			now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
			now = settle(t, d, true, now)

			step := window / time.Duration(len(seq.levels)+1)
			cur := now
			for _, lvl := range seq.levels {
				cur = cur.Add(step)
				if tr := d.Sample(lvl, cur); tr != nil {
					t.Fatalf("transition during in-window noise: %+v", tr)
				}
			}

			transitions := 0
			var last *Transition
			for i := 0; i < 10; i++ {
				cur = cur.Add(window)
				if tr := d.Sample(seq.final, cur); tr != nil {
					transitions++
					last = tr
				}
			}

			wantTransitions := 0
			if !seq.final {
				wantTransitions = 1
			}
			if transitions != wantTransitions {
				t.Fatalf("transitions: got %d, want %d", transitions, wantTransitions)
			}
			if last != nil && last.To != seq.final {
				t.Errorf("final stable level: got %v, want %v", last.To, seq.final)
			}
		})
	}
}

func TestBaselineWhileHeldLowIsNotAPress(t *testing.T) {
	d := New(window)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	// Button held at boot: level is low from the first sample.
	if tr := d.Sample(false, now); tr != nil {
		t.Fatalf("unexpected transition: %+v", tr)
	}
	if tr := d.Sample(false, now.Add(window)); tr != nil {
		t.Fatalf("boot-time level must not read as an edge, got %+v", tr)
	}

	level, baselined := d.Stable()
	if !baselined || level {
		t.Errorf("stable: got (%v,%v), want (low, baselined)", level, baselined)
	}
}
