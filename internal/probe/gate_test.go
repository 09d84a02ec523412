package probe

import (
	"testing"
	"time"
)

// testGate returns a gate with a controllable clock starting at a fixed instant.
func testGate(cfg Config) (*Gate, *time.Time) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	g := NewGate(cfg)
	g.now = func() time.Time { return now }
	g.started = now
	return g, &now
}

func TestGateHealthyOnSuccess(t *testing.T) {
	g, _ := testGate(Config{})
	if got := g.Observe(true); got != StatusHealthy {
		t.Errorf("expected healthy, got %s", got)
	}
}

func TestGateStartPeriodFailuresDoNotCount(t *testing.T) {
	g, now := testGate(Config{})

	// All failures inside the 5s start period are ignored.
	for i := 0; i < 10; i++ {
		if got := g.Observe(false); got != StatusStarting {
			t.Fatalf("check %d: expected starting, got %s", i, got)
		}
	}
	if g.Failures() != 0 {
		t.Errorf("start-period failures must not count, got %d", g.Failures())
	}

	// Once the start period has elapsed, failures count.
	*now = now.Add(6 * time.Second)
	g.Observe(false)
	if g.Failures() != 1 {
		t.Errorf("expected 1 failure, got %d", g.Failures())
	}
}

func TestGateUnhealthyAfterRetries(t *testing.T) {
	g, now := testGate(Config{})
	*now = now.Add(10 * time.Second) // past start period

	for i := 0; i < DefaultRetries-1; i++ {
		if got := g.Observe(false); got != StatusHealthy {
			t.Fatalf("failure %d: expected still healthy, got %s", i+1, got)
		}
	}
	if got := g.Observe(false); got != StatusUnhealthy {
		t.Errorf("expected unhealthy after %d failures, got %s", DefaultRetries, got)
	}
}

func TestGateSuccessResetsBudget(t *testing.T) {
	g, now := testGate(Config{})
	*now = now.Add(10 * time.Second)

	g.Observe(false)
	g.Observe(false)
	if got := g.Observe(true); got != StatusHealthy {
		t.Errorf("expected healthy after success, got %s", got)
	}
	if g.Failures() != 0 {
		t.Errorf("expected failure count reset, got %d", g.Failures())
	}

	// Budget starts over; two more failures are still healthy.
	g.Observe(false)
	if got := g.Observe(false); got != StatusHealthy {
		t.Errorf("expected healthy with fresh budget, got %s", got)
	}
}

func TestGateNeverUnhealthyOnFirstCheckInStartPeriod(t *testing.T) {
	g, _ := testGate(Config{Retries: 1})
	if got := g.Observe(false); got == StatusUnhealthy {
		t.Error("first check within start period must never be unhealthy")
	}
}
