package framewire_test

import (
	"testing"
	"time"

	"github.com/go-daq/framewire"
)

func TestTimeoutElapsed(t *testing.T) {
	to := framewire.NewTimeout(20 * time.Millisecond)
	if to.Elapsed() {
		t.Fatalf("expected budget not yet elapsed right after construction")
	}
	time.Sleep(30 * time.Millisecond)
	if !to.Elapsed() {
		t.Fatalf("expected budget elapsed after sleeping past it")
	}
}

func TestTimeoutElapsedOfOverride(t *testing.T) {
	to := framewire.NewTimeout(0)
	if to.ElapsedOf(50 * time.Millisecond) {
		t.Fatalf("expected override budget not yet elapsed")
	}
	time.Sleep(60 * time.Millisecond)
	if !to.ElapsedOf(50 * time.Millisecond) {
		t.Fatalf("expected override budget elapsed")
	}
}

func TestTimeoutTimeLeftNeverNegative(t *testing.T) {
	to := framewire.NewTimeout(10 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if got := to.TimeLeft(); got != 0 {
		t.Fatalf("TimeLeft after expiry: got=%v want=0", got)
	}
}

func TestTimeoutTimeLeftOfDecreases(t *testing.T) {
	to := framewire.NewTimeout(0)
	first := to.TimeLeftOf(100 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	second := to.TimeLeftOf(100 * time.Millisecond)
	if second >= first {
		t.Fatalf("expected remaining time to shrink: first=%v second=%v", first, second)
	}
}
