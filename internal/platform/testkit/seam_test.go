package testkit

import (
	"sync"
	"testing"
	"time"
)

var (
	clockFn    = func() int64 { return 1000 }
	seamTarget = "original"
)

func TestSwapRestoresFunction(t *testing.T) {
	// swap inside a subtest so Cleanup fires before the outer assertions
	t.Run("swapped", func(t *testing.T) {
		if got := clockFn(); got != 1000 {
			t.Fatalf("precondition failed, clockFn()=%d want 1000", got)
		}
		Swap(t, &clockFn, func() int64 { return -1 })
		if got := clockFn(); got != -1 {
			t.Fatalf("swap did not take effect, got %d", got)
		}
	})

	if got := clockFn(); got != 1000 {
		t.Fatalf("swap did not restore original, got %d", got)
	}
}

func TestSwapRestoresValue(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &seamTarget, "replacement")
		if seamTarget != "replacement" {
			t.Fatalf("swap failed, got %q", seamTarget)
		}
	})
	if seamTarget != "original" {
		t.Fatalf("swap did not restore original, got %q", seamTarget)
	}
}

func TestSerialPreventsInterleaving(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seq := make([]string, 0, 4)
	record := func(s string) {
		mu.Lock()
		seq = append(seq, s)
		mu.Unlock()
	}

	t.Run("one", func(t *testing.T) {
		t.Parallel()
		Serial(t)
		record("one-start")
		time.Sleep(40 * time.Millisecond)
		record("one-end")
	})
	t.Run("two", func(t *testing.T) {
		t.Parallel()
		Serial(t)
		record("two-start")
		time.Sleep(40 * time.Millisecond)
		record("two-end")
	})

	t.Cleanup(func() {
		mu.Lock()
		defer mu.Unlock()
		if len(seq) != 4 {
			t.Fatalf("unexpected sequence %v", seq)
		}
		// each start must be immediately followed by its own end
		for i := 0; i < 4; i += 2 {
			start, end := seq[i], seq[i+1]
			if start == "one-start" && end != "one-end" {
				t.Fatalf("interleaved execution: %v", seq)
			}
			if start == "two-start" && end != "two-end" {
				t.Fatalf("interleaved execution: %v", seq)
			}
		}
	})
}
