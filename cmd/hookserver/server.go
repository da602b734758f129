package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/xmidt-org/httphook"
	"github.com/xmidt-org/httphook/logobserver"
	"github.com/xmidt-org/httphook/otelobserver"
	"github.com/xmidt-org/httphook/promobserver"
	"github.com/xmidt-org/httphook/recovery"
)

// newRoutes creates the demonstration routes.  None of them know about the hook.
func newRoutes(registry *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /hey", httphook.ConstantText("Hi there!"))
	mux.Handle("GET /bye", httphook.ConstantText("Goodbye!"))
	mux.Handle("GET /health", httphook.ConstantHandler{StatusCode: http.StatusNoContent})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("POST /echo", func(response http.ResponseWriter, request *http.Request) {
		body, err := io.ReadAll(request.Body)
		if err != nil {
			http.Error(response, err.Error(), http.StatusBadRequest)
			return
		}

		response.Header().Set("Content-Type", "application/octet-stream")
		response.Write(body)
	})

	mux.HandleFunc("GET /panic", func(http.ResponseWriter, *http.Request) {
		panic("requested panic")
	})

	mux.HandleFunc("GET /{n}", func(response http.ResponseWriter, request *http.Request) {
		n, err := strconv.Atoi(request.PathValue("n"))
		if err != nil {
			http.NotFound(response, request)
			return
		}

		httphook.ConstantText(strconv.Itoa(n*2)).ServeHTTP(response, request)
	})

	return mux
}

// newMeterProvider creates an OpenTelemetry meter provider whose metrics are
// exported through registry, next to the native Prometheus metrics.
func newMeterProvider(registry *prometheus.Registry) (*sdkmetric.MeterProvider, error) {
	exporter, err := otelprom.New(
		otelprom.WithRegisterer(registry),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	), nil
}

// newHandler assembles the complete server handler: recovery outermost, then
// the hook, then the routes.
func newHandler(cfg Config, logger *slog.Logger, registry *prometheus.Registry, meter metric.Meter) (http.Handler, error) {
	prom := promobserver.New(promobserver.Config{
		Namespace: cfg.Metrics.Namespace,
	})

	if err := registry.Register(prom); err != nil {
		return nil, err
	}

	otelObserver, err := otelobserver.New(meter)
	if err != nil {
		return nil, err
	}

	hook, err := httphook.New().
		Apply(cfg.Hook).
		Logger(logger).
		Register(
			logobserver.New(logger, logobserver.WithSlowThreshold(time.Duration(cfg.SlowThreshold))),
			prom,
			otelObserver,
		).
		Build()

	if err != nil {
		return nil, err
	}

	recoverOptions := []recovery.Option{recovery.WithLogger(logger)}
	if cfg.Verbose {
		recoverOptions = append(recoverOptions, recovery.WithRecoverBody(recovery.VerboseRecoverBody))
	}

	return recovery.Middleware(recoverOptions...)(
		hook.Then(newRoutes(registry)),
	), nil
}
