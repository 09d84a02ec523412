// Package bootstrap ties configuration, logging, and the component registry
// into one application lifecycle: start components, run hooks, wait for a
// shutdown signal, stop components in reverse order.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/data2csv/internal/component"
	"github.com/skillsenselab/data2csv/internal/config"
	"github.com/skillsenselab/data2csv/internal/logger"
	"github.com/skillsenselab/data2csv/internal/version"
)

// Hook is a lifecycle callback that runs during application startup or shutdown.
type Hook func(ctx context.Context) error

// App manages the application lifecycle.
type App struct {
	Name       string
	Version    string
	Cfg        *config.Config
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	fatalCh         chan error

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// New creates an application from a validated config. Defaults must already
// be applied and validation passed; New only assembles the runtime pieces.
func New(cfg *config.Config) *App {
	logger.Init(cfg.Logging)
	log := logger.GetGlobalLogger().WithComponent("app")

	return &App{
		Name:            cfg.Name,
		Version:         version.GetVersionInfo().Version,
		Cfg:             cfg,
		Components:      component.NewRegistry(),
		Logger:          log,
		gracefulTimeout: 15 * time.Second,
		fatalCh:         make(chan error, 1),
	}
}

// RegisterComponent adds a component to the application's registry.
func (a *App) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnStart registers hooks that run after all components are started.
func (a *App) OnStart(hooks ...Hook) { a.onStart = append(a.onStart, hooks...) }

// OnReady registers hooks that run after the ready check passes.
func (a *App) OnReady(hooks ...Hook) { a.onReady = append(a.onReady, hooks...) }

// OnStop registers hooks that run during graceful shutdown before components
// are stopped.
func (a *App) OnStop(hooks ...Hook) { a.onStop = append(a.onStop, hooks...) }

// ReadyCheck verifies that all registered components are healthy.
func (a *App) ReadyCheck(ctx context.Context) error {
	results := a.Components.HealthAll(ctx)
	var unhealthy []string
	for _, h := range results {
		if h.Status == component.StatusUnhealthy {
			detail := h.Name + "=" + string(h.Status)
			if h.Message != "" {
				detail += "(" + h.Message + ")"
			}
			unhealthy = append(unhealthy, detail)
		}
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("unhealthy components: %v", unhealthy)
	}
	return nil
}

// Run executes the full lifecycle: start components, run hooks, block until a
// shutdown signal or fatal runtime error, then stop everything gracefully. A
// fatal error takes precedence over any shutdown error in the return value.
func (a *App) Run(ctx context.Context) error {
	if err := a.startup(ctx); err != nil {
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	runErr := a.wait(ctx)

	stopErr := a.stop()
	if runErr != nil {
		return runErr
	}
	return stopErr
}

// FailWith reports an unrecoverable runtime error from a background goroutine,
// such as a serve loop dying after a successful bind. Run unblocks, shuts the
// application down, and returns the error so the process exits non-zero. Only
// the first error is kept.
func (a *App) FailWith(err error) {
	select {
	case a.fatalCh <- err:
	default:
	}
}

// wait blocks until a shutdown signal, context cancellation, or a fatal
// runtime error reported through FailWith.
func (a *App) wait(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})
		return nil
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	case err := <-a.fatalCh:
		a.Logger.Error("Fatal runtime error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
}

// startup starts components and runs the start/ready hooks.
func (a *App) startup(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", map[string]interface{}{
		"name":    a.Name,
		"version": a.Version,
	})

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start components: %w", err)
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Warn("Ready check reported issues", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := runHooks(ctx, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Logger.Info("Startup complete", map[string]interface{}{
		"duration": time.Since(start).String(),
	})
	return nil
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App) Shutdown(ctx context.Context) error {
	return a.stop()
}

// stop runs the stop hooks and stops all components within the graceful timeout.
func (a *App) stop() error {
	a.Logger.Info("Shutting down application", map[string]interface{}{
		"timeout": a.gracefulTimeout.String(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("onStop hook failed", map[string]interface{}{
			"error": err.Error(),
		})
		shutdownErr = err
	}

	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("component shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	logger.Flush()
	return shutdownErr
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
