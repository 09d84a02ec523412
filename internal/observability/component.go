package observability

import (
	"context"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/skillsenselab/data2csv/internal/component"
)

// Telemetry manages tracer and meter providers as a lifecycle component.
type Telemetry struct {
	cfg            Config
	serviceName    string
	serviceVersion string
	environment    string

	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

// NewTelemetry creates the telemetry component.
func NewTelemetry(cfg Config, serviceName, serviceVersion, environment string) *Telemetry {
	cfg.ApplyDefaults()
	return &Telemetry{
		cfg:            cfg,
		serviceName:    serviceName,
		serviceVersion: serviceVersion,
		environment:    environment,
	}
}

func (t *Telemetry) Name() string { return "telemetry" }

// Start initializes the OTLP exporters. Disabled telemetry starts as a no-op.
func (t *Telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled {
		return nil
	}

	tp, err := InitTracer(ctx, t.cfg, t.serviceName, t.serviceVersion, t.environment)
	if err != nil {
		return err
	}
	t.tp = tp

	mp, err := InitMeter(ctx, t.cfg, t.serviceName, t.serviceVersion, t.environment)
	if err != nil {
		return err
	}
	t.mp = mp
	return nil
}

// Stop flushes and shuts down the providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	var firstErr error
	if t.tp != nil {
		if err := t.tp.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if t.mp != nil {
		if err := t.mp.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Health always reports healthy: disabled telemetry is a deliberate
// configuration, not a degradation of the service.
func (t *Telemetry) Health(ctx context.Context) component.Health {
	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	if !t.cfg.Enabled {
		h.Message = "telemetry disabled"
	}
	return h
}
