package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/skillsenselab/data2csv/internal/component"
	"github.com/skillsenselab/data2csv/internal/logger"
)

const componentName = "liveness-probe"

var _ component.Component = (*Watcher)(nil)
var _ component.Describable = (*Watcher)(nil)

// Watcher runs the process-table check on the configured interval and feeds
// the results through a Gate. It observes its own process (includeSelf), so
// it reports exactly what an external probe of this container would see.
type Watcher struct {
	cfg    Config
	gate   *Gate
	log    *logger.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher from config.
func NewWatcher(cfg Config, log *logger.Logger) *Watcher {
	cfg.ApplyDefaults()
	return &Watcher{
		cfg:  cfg,
		gate: NewGate(cfg),
		log:  log.WithComponent(componentName),
	}
}

// Name returns the component name used for registration.
func (w *Watcher) Name() string { return componentName }

// Start begins the periodic check loop.
func (w *Watcher) Start(ctx context.Context) error {
	loopCtx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go w.loop(loopCtx)

	w.log.Info("Liveness probe started", map[string]interface{}{
		"pattern":      w.cfg.Pattern,
		"interval":     w.cfg.Interval.String(),
		"start_period": w.cfg.StartPeriod.String(),
		"retries":      w.cfg.Retries,
	})
	return nil
}

// Stop terminates the check loop.
func (w *Watcher) Stop(ctx context.Context) error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Health maps the gate verdict to component health. A starting verdict is
// reported healthy: failures inside the start period must never mark the
// container unhealthy.
func (w *Watcher) Health(ctx context.Context) component.Health {
	status := w.gate.Status()
	if status == StatusUnhealthy {
		return component.Health{
			Name:    componentName,
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("process %q missing for %d consecutive checks", w.cfg.Pattern, w.gate.Failures()),
		}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the startup display.
func (w *Watcher) Describe() component.Description {
	return component.Description{
		Name:    "Liveness Probe",
		Type:    "probe",
		Details: fmt.Sprintf("pattern=%s interval=%s retries=%d", w.cfg.Pattern, w.cfg.Interval, w.cfg.Retries),
	}
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *Watcher) check(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	pids, err := MatchingPIDs(checkCtx, w.cfg.Pattern, true)
	if err != nil {
		w.log.Warn("Probe check failed", map[string]interface{}{"error": err.Error()})
	}

	status := w.gate.Observe(err == nil && len(pids) > 0)
	if status == StatusUnhealthy {
		w.log.Error("Liveness gate unhealthy", map[string]interface{}{
			"pattern":  w.cfg.Pattern,
			"failures": w.gate.Failures(),
		})
	}
}
