// Package app owns the application lifecycle: it assembles the REST client,
// cache, metrics, parameter engine, service facade, and tool catalog into
// one context with explicit startup and shutdown, and runs the MCP stdio
// server until the client disconnects or a termination signal arrives.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"checkmkmcp/internal/batch"
	"checkmkmcp/internal/cache"
	"checkmkmcp/internal/checkmkclient"
	"checkmkmcp/internal/config"
	"checkmkmcp/internal/mcpserver"
	"checkmkmcp/internal/metrics"
	"checkmkmcp/internal/params"
	"checkmkmcp/internal/params/handlers"
	"checkmkmcp/internal/services"
	"checkmkmcp/internal/tools"
	"checkmkmcp/pkg/logging"
)

// drainTimeout bounds how long shutdown waits for in-flight work.
const drainTimeout = 5 * time.Second

// Application holds every process-wide component.
type Application struct {
	cfg    config.Config
	cache  *cache.Cache
	client *checkmkclient.Client
	server *mcpserver.Server
}

// New validates the configuration and wires the full component graph.
func New(cfg config.Config, version string) (*Application, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	collector := metrics.NewCollector()

	client, err := checkmkclient.New(checkmkclient.Config{
		ObserveRequest: collector.ObserveRequest,
		ServerURL:  cfg.Checkmk.ServerURL,
		Username:   cfg.Checkmk.Username,
		Password:   cfg.Checkmk.Password,
		Site:       cfg.Checkmk.Site,
		VerifySSL:  cfg.Checkmk.VerifySSL,
		CACertPath: cfg.Checkmk.CACertPath,
		Retry: checkmkclient.RetryPolicy{
			MaxRetries: cfg.Advanced.Recovery.Retry.MaxRetries,
			BaseDelay:  cfg.Advanced.Recovery.Retry.BaseDelay,
			Jitter:     cfg.Advanced.Recovery.Retry.Jitter,
		},
		BreakerConfig: checkmkclient.BreakerConfig{
			FailureThreshold: cfg.Advanced.Recovery.CircuitBreaker.FailureThreshold,
			RecoveryTimeout:  cfg.Advanced.Recovery.CircuitBreaker.RecoveryTimeout,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("app: building Checkmk client: %w", err)
	}

	c := cache.New(
		cfg.Advanced.Cache.MaxSize,
		cfg.Advanced.Cache.DefaultTTL,
		cfg.Advanced.Cache.CleanupInterval,
	)

	engine := params.NewEngine(client, handlers.NewDefaultRegistry(), handlers.DefaultPolicies())

	cacheTTL := cfg.Advanced.Cache.DefaultTTL
	batchCfg := batch.Config{
		MaxConcurrent:  cfg.Advanced.Batch.MaxConcurrent,
		MaxRetries:     cfg.Advanced.Batch.MaxRetries,
		RetryBaseDelay: cfg.Advanced.Batch.RetryBaseDelay,
		RateLimit:      cfg.Advanced.Batch.RateLimit,
	}

	registry := tools.NewRegistry(tools.Deps{
		Hosts:    services.NewHostService(client, c, cacheTTL),
		Services: services.NewServiceService(client, c, cacheTTL),
		Status:   services.NewStatusService(client),
		Events:   services.NewEventService(client),
		Metrics:  services.NewMetricService(client, c, cfg.Historical),
		BI:       services.NewBIService(client),
		Advanced: services.NewAdvancedService(client, c, collector, batchCfg, cfg.Advanced.Streaming.DefaultBatchSize, cacheTTL),
		Params:   engine,
		Features: cfg.Features,
	})

	return &Application{
		cfg:    cfg,
		cache:  c,
		client: client,
		server: mcpserver.New(version, registry, mcpserver.DefaultCallTimeout),
	}, nil
}

func validate(cfg config.Config) error {
	switch {
	case cfg.Checkmk.ServerURL == "":
		return fmt.Errorf("app: checkmk.server_url is required")
	case cfg.Checkmk.Username == "":
		return fmt.Errorf("app: checkmk.username is required")
	case cfg.Checkmk.Password == "":
		return fmt.Errorf("app: checkmk.password is required (or set %s)", config.EnvPasswordVar)
	}
	return nil
}

// Run serves until the stdio client disconnects or SIGINT/SIGTERM arrives,
// then drains and releases process-wide resources.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := a.server.Run(ctx)

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	a.shutdown(drainCtx)

	return err
}

func (a *Application) shutdown(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		a.cache.Close()
		close(done)
	}()
	select {
	case <-done:
		logging.Info("App", "shutdown complete")
	case <-ctx.Done():
		logging.Warn("App", "shutdown drain deadline exceeded")
	}
}
