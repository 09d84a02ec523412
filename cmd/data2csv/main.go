// Command data2csv runs the Data2CSV MCP server: a JSON-RPC service that
// converts 2D data to CSV and Excel documents and optionally publishes them
// to Nextcloud.
//
// It also provides a "probe" subcommand used as the container health check:
// it reports whether a matching server process exists, nothing more. A
// process that is alive but not yet serving traffic still passes; readiness
// is the orchestrator's concern, answered by the /ready endpoint.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/skillsenselab/data2csv/internal/bootstrap"
	"github.com/skillsenselab/data2csv/internal/config"
	"github.com/skillsenselab/data2csv/internal/logger"
	"github.com/skillsenselab/data2csv/internal/mcp"
	"github.com/skillsenselab/data2csv/internal/nextcloud"
	"github.com/skillsenselab/data2csv/internal/observability"
	"github.com/skillsenselab/data2csv/internal/probe"
	"github.com/skillsenselab/data2csv/internal/server"
	"github.com/skillsenselab/data2csv/internal/server/endpoint"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "probe" {
		os.Exit(runProbe(os.Args[2:]))
	}
	os.Exit(runServer(os.Args[1:]))
}

// runServer parses flags, loads configuration, and runs the service. Any
// malformed parameter or failed bind aborts with a non-zero exit; the process
// never restarts itself, supervision belongs to the container runtime.
func runServer(args []string) int {
	fs := pflag.NewFlagSet("data2csv", pflag.ContinueOnError)
	host := fs.String("host", server.DefaultHost, "Host to bind to")
	port := fs.Int("port", server.DefaultPort, "Port to bind to")
	configFile := fs.String("config", "", "Path to config.yml")
	envFile := fs.String("env-file", "", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "data2csv: %v\n", err)
		return 2
	}

	var cfg config.Config
	var loadOpts []config.LoaderOption
	if *configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(*envFile))
	}
	if err := config.Load(&cfg, loadOpts...); err != nil {
		fmt.Fprintf(os.Stderr, "data2csv: %v\n", err)
		return 1
	}

	// Command-line flags override file and environment configuration. An
	// explicit port is range-checked here: defaulting applies only to unset
	// values, never to invalid ones.
	if fs.Changed("host") {
		cfg.Server.Host = *host
	}
	if fs.Changed("port") {
		if *port < 1 || *port > 65535 {
			fmt.Fprintf(os.Stderr, "data2csv: invalid --port %d: must be between 1 and 65535\n", *port)
			return 1
		}
		cfg.Server.Port = *port
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "data2csv: invalid configuration: %v\n", err)
		return 1
	}

	app := bootstrap.New(&cfg)
	log := logger.GetGlobalLogger()

	log.Info("process identity", map[string]interface{}{
		"uid":  probe.EffectiveUID(),
		"root": probe.IsRoot(),
	})

	srv := server.New(cfg.Server, log)

	// Instruments are created against the global meter; they stay no-ops
	// until the telemetry component installs a real provider.
	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		log.Warn("metric instruments unavailable", map[string]interface{}{"error": err.Error()})
	}

	tools := mcp.NewToolRegistry()
	if err := tools.Register(mcp.NewCSVTool(metrics)); err != nil {
		log.Error("tool registration failed", map[string]interface{}{"error": err.Error()})
		return 1
	}
	if err := tools.Register(mcp.NewExcelTool(metrics)); err != nil {
		log.Error("tool registration failed", map[string]interface{}{"error": err.Error()})
		return 1
	}

	var nc *nextcloud.Client
	if cfg.Nextcloud.Enabled {
		nc = nextcloud.NewClient(cfg.Nextcloud, log)
		if err := tools.Register(mcp.NewUploadTool(nc, metrics)); err != nil {
			log.Error("tool registration failed", map[string]interface{}{"error": err.Error()})
			return 1
		}
	}

	handler := mcp.NewHandler(tools, log)
	handler.RegisterRoutes(srv.Engine())

	engine := srv.Engine()
	engine.GET("/health", endpoint.Health(cfg.Name, app.Components.HealthAll, handler.Sessions().Count))
	engine.GET("/alive", endpoint.Liveness(cfg.Name))
	engine.GET("/ready", endpoint.Readiness(cfg.Name, app.Components.HealthAll))
	engine.GET("/info", endpoint.Info(cfg.Name, handler.Sessions().Count))

	if err := app.RegisterComponent(srv.AsComponent()); err != nil {
		log.Error("component registration failed", map[string]interface{}{"error": err.Error()})
		return 1
	}
	if nc != nil {
		if err := app.RegisterComponent(nc.AsComponent()); err != nil {
			log.Error("component registration failed", map[string]interface{}{"error": err.Error()})
			return 1
		}
	}
	if cfg.Probe.Enabled {
		if err := app.RegisterComponent(probe.NewWatcher(cfg.Probe, log)); err != nil {
			log.Error("component registration failed", map[string]interface{}{"error": err.Error()})
			return 1
		}
	}
	if err := app.RegisterComponent(observability.NewTelemetry(
		cfg.Observability, cfg.Name, app.Version, cfg.Environment)); err != nil {
		log.Error("component registration failed", map[string]interface{}{"error": err.Error()})
		return 1
	}

	// A serve-loop failure after a successful bind must not leave the
	// process idling; route it into the app so Run exits non-zero.
	app.OnReady(func(context.Context) error {
		go func() {
			if err, ok := <-srv.ServeErr(); ok && err != nil {
				app.FailWith(fmt.Errorf("server terminated: %w", err))
			}
		}()
		return nil
	})

	if err := app.Run(context.Background()); err != nil {
		log.Error("application terminated", map[string]interface{}{"error": err.Error()})
		logger.Flush()
		return 1
	}
	return 0
}

// runProbe implements the container health check: exit 0 when a server
// process matching the pattern exists, 1 otherwise. The probing process
// itself never counts as a match.
func runProbe(args []string) int {
	fs := pflag.NewFlagSet("data2csv probe", pflag.ContinueOnError)
	pattern := fs.String("pattern", probe.DefaultPattern, "Process pattern to look for")
	timeout := fs.Duration("timeout", probe.DefaultTimeout, "Probe timeout")
	quiet := fs.Bool("quiet", false, "Suppress output")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "data2csv probe: %v\n", err)
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	alive, err := probe.Check(ctx, *pattern)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "data2csv probe: %v\n", err)
		}
		return 1
	}
	if !alive {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "data2csv probe: no process matching %q\n", *pattern)
		}
		return 1
	}
	if !*quiet {
		fmt.Printf("data2csv probe: process matching %q is alive\n", *pattern)
	}
	return 0
}
