// Package main provides the entry point for sessgate-server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"

	"github.com/yndnr/sessgate-go/internal/core/registry"
	"github.com/yndnr/sessgate-go/internal/core/service"
	"github.com/yndnr/sessgate-go/internal/infra/buildinfo"
	"github.com/yndnr/sessgate-go/internal/infra/confloader"
	"github.com/yndnr/sessgate-go/internal/infra/shutdown"
	"github.com/yndnr/sessgate-go/internal/server/adminserver"
	"github.com/yndnr/sessgate-go/internal/server/config"
	"github.com/yndnr/sessgate-go/internal/telemetry/logger"
	"github.com/yndnr/sessgate-go/internal/telemetry/metric"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app creates the CLI application.
func app() *cli.App {
	return &cli.App{
		Name:    "sessgate-server",
		Usage:   "Session table server for stateful protocol front ends",
		Version: buildinfo.String(),
		Commands: []*cli.Command{
			runCommand(),
			versionCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Start the server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				EnvVars: []string{"SESSGATE_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "admin-addr",
				Usage: "Administrative HTTP listen address (overrides config)",
			},
			&cli.IntFlag{
				Name:  "max-sessions",
				Usage: "Maximum number of concurrent sessions (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "watch-config",
				Usage: "Reload log level when the config file changes",
			},
		},
		Action: runServer,
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information",
		Action: func(c *cli.Context) error {
			info := buildinfo.Get()
			fmt.Printf("sessgate-server %s\n", buildinfo.String())
			fmt.Printf("go version: %s\n", info.GoVersion)
			return nil
		},
	}
}

func runServer(c *cli.Context) error {
	configFile := c.String("config")

	// Load configuration
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	log.Info("starting sessgate-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", configFile)

	// Session table, serialized behind one lock
	table := registry.NewGuarded(registry.New(registry.Config{
		MaxSessionCount:    cfg.Sessions.MaxCount,
		MaxSessionLifetime: cfg.Sessions.MaxLifetime,
		StartSessionID:     cfg.Sessions.StartSessionID,
	}))

	// Metrics, with the active gauge read straight off the table
	metrics := metric.New()
	metrics.MustRegister(metric.NewTableCollector(table))

	// Session service
	svcOpts := []service.Option{
		service.WithMetrics(metrics),
		service.WithLogger(log),
	}
	if cfg.Sessions.CreateRate > 0 {
		svcOpts = append(svcOpts, service.WithCreateRateLimit(
			rate.Limit(cfg.Sessions.CreateRate),
			cfg.Sessions.CreateBurst,
		))
	}
	svc := service.NewSessionService(table, svcOpts...)

	// Expiration sweeper
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		service.NewSweeper(svc, cfg.Sessions.SweepInterval).Run(sweepCtx)
	}()

	// Administrative HTTP server
	adminHandler := adminserver.NewHandler(&adminserver.HandlerConfig{
		SessionService: svc,
		MaxSessions:    cfg.Sessions.MaxCount,
		Metrics:        metrics,
		Logger:         log,
	})
	adminSrv := adminserver.New(cfg.Server.Admin.Addr, adminHandler)

	// Config file watcher for runtime log level changes
	var watcher *confloader.Watcher
	if c.Bool("watch-config") && configFile != "" {
		watcher, err = startConfigWatcher(configFile, log)
		if err != nil {
			return fmt.Errorf("watch config: %w", err)
		}
	}

	// Setup graceful shutdown, hooks in reverse order of startup
	shutdownHandler := shutdown.NewHandler(30 * time.Second)

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("tearing down session table")
		svc.Shutdown()
		return nil
	})

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("stopping expiration sweeper")
		stopSweep()
		select {
		case <-sweeperDone:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		log.Info("shutting down admin server")
		return adminSrv.Shutdown(ctx)
	})

	if watcher != nil {
		shutdownHandler.OnShutdown(func(ctx context.Context) error {
			return watcher.Stop()
		})
	}

	// Start admin server in goroutine
	go func() {
		log.Info("admin server listening", "addr", cfg.Server.Admin.Addr)
		if err := adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("admin server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	log.Info("server started",
		"max_sessions", cfg.Sessions.MaxCount,
		"max_lifetime", cfg.Sessions.MaxLifetime.String(),
		"sweep_interval", cfg.Sessions.SweepInterval.String())
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// loadConfig loads configuration from file, environment, and flags.
func loadConfig(c *cli.Context) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{}
	if configFile := c.String("config"); configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	loader := confloader.NewLoader(opts...)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}

	// Flags win over file and environment
	overrides := map[string]any{}
	if addr := c.String("admin-addr"); addr != "" {
		overrides["server.admin.addr"] = addr
	}
	if n := c.Int("max-sessions"); n > 0 {
		overrides["sessions.max_count"] = n
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default.
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}

	logger.SetDefault(log)
	return log, nil
}

// startConfigWatcher reloads the log level when the config file changes.
// Other settings require a restart.
func startConfigWatcher(configFile string, log logger.Logger) (*confloader.Watcher, error) {
	watcher, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}

	watcher.OnChange(func(path string) {
		reloaded := config.Default()
		loader := confloader.NewLoader(confloader.WithConfigFile(configFile))
		if err := loader.Load(reloaded); err != nil {
			log.Warn("config reload failed, keeping current settings", "error", err)
			return
		}
		if level := reloaded.Log.Level; level != logger.GetLevel() {
			logger.SetLevel(level)
			log.Info("log level changed", "level", level)
		}
	})

	if err := watcher.Watch(configFile); err != nil {
		watcher.Stop()
		return nil, err
	}

	watcher.StartAsync()
	return watcher, nil
}
