package probe

import (
	"sync"
	"time"
)

// Status is the verdict of the debounce gate.
type Status string

const (
	// StatusHealthy means the last check succeeded, or the retry budget is
	// not yet exhausted.
	StatusHealthy Status = "healthy"
	// StatusStarting means a check failed inside the start period; such
	// failures do not count against the retry budget.
	StatusStarting Status = "starting"
	// StatusUnhealthy means Retries consecutive checks failed outside the
	// start period.
	StatusUnhealthy Status = "unhealthy"
)

// Gate debounces individual check results into a health verdict using the
// four health-check parameters: failures within StartPeriod of gate
// creation are ignored, and only Retries consecutive failures after that
// flip the verdict to unhealthy. A single success resets the budget.
type Gate struct {
	cfg      Config
	mu       sync.Mutex
	started  time.Time
	failures int
	status   Status

	// now is swappable for tests.
	now func() time.Time
}

// NewGate creates a gate. The start period begins immediately.
func NewGate(cfg Config) *Gate {
	cfg.ApplyDefaults()
	g := &Gate{
		cfg:    cfg,
		status: StatusHealthy,
		now:    time.Now,
	}
	g.started = g.now()
	return g
}

// Observe records one check result and returns the current verdict.
func (g *Gate) Observe(ok bool) Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	if ok {
		g.failures = 0
		g.status = StatusHealthy
		return g.status
	}

	if g.now().Sub(g.started) < g.cfg.StartPeriod {
		g.status = StatusStarting
		return g.status
	}

	g.failures++
	if g.failures >= g.cfg.Retries {
		g.status = StatusUnhealthy
	} else {
		g.status = StatusHealthy
	}
	return g.status
}

// Status returns the current verdict without recording a result.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// Failures returns the current consecutive failure count.
func (g *Gate) Failures() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.failures
}
