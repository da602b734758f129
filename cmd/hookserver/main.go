// Hookserver is a small demonstration server.  Every request passes through a
// recovery middleware and then a request hook that logs the request and records
// it as Prometheus and OpenTelemetry metrics.  Prometheus metrics are served at /metrics.
//
// Usage:
//
//	hookserver [-config hookserver.yaml]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/xmidt-org/httphook/otelobserver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("hookserver", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to a YAML, TOML, or JSON configuration file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	level, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid log level: %s\n", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	meterProvider, err := newMeterProvider(registry)
	if err != nil {
		logger.Error("unable to create meter provider", "error", err)
		return 1
	}

	defer meterProvider.Shutdown(context.Background())

	handler, err := newHandler(cfg, logger, registry, meterProvider.Meter(otelobserver.ScopeName))
	if err != nil {
		logger.Error("unable to create handler", "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := serve(ctx, cfg, logger, handler); err != nil {
		logger.Error("server failed", "error", err)
		return 1
	}

	return 0
}

// serve runs an HTTP server until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, cfg Config, logger *slog.Logger, handler http.Handler) error {
	server := &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", "address", cfg.Address)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server stopping")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout))
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
