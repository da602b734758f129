package otelobserver

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xmidt-org/httphook"
)

// ScopeName is the instrumentation scope used when no meter is supplied.
const ScopeName = "github.com/xmidt-org/httphook/otelobserver"

// Metric names recorded by Observer.
const (
	ActiveRequestsName = "http.server.active_requests"
	RequestsName       = "http.server.requests"
	DurationName       = "http.server.request.duration"
	BodySizeName       = "http.server.request.body.size"
)

// Observer is an httphook.Observer that records request metrics through OpenTelemetry.
// OpenTelemetry instruments are safe for concurrent use, so Observer is as well.
type Observer struct {
	active   metric.Int64UpDownCounter
	requests metric.Int64Counter
	duration metric.Float64Histogram
	bodySize metric.Int64Histogram
}

var _ httphook.Observer = (*Observer)(nil)

// New creates an Observer whose instruments come from the given meter.  If meter
// is nil, the global meter provider is used.
func New(meter metric.Meter) (*Observer, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(ScopeName)
	}

	var (
		o   = new(Observer)
		err error
	)

	o.active, err = meter.Int64UpDownCounter(
		ActiveRequestsName,
		metric.WithDescription("Number of requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	o.requests, err = meter.Int64Counter(
		RequestsName,
		metric.WithDescription("Total number of requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	o.duration, err = meter.Float64Histogram(
		DurationName,
		metric.WithDescription("Time taken to serve a request"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	o.bodySize, err = meter.Int64Histogram(
		BodySizeName,
		metric.WithDescription("Size of request bodies"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return o, nil
}

// OnRequestStarted increments the active request count and records the body size.
func (o *Observer) OnRequestStarted(d httphook.StartData) {
	ctx := context.Background()
	if d.Request != nil {
		ctx = d.Request.Context()
	}

	opt := metric.WithAttributes(attribute.String("http.request.method", d.Method))
	o.active.Add(ctx, 1, opt)
	o.bodySize.Record(ctx, int64(len(d.Body)), opt)
}

// OnRequestEnded decrements the active request count and records the outcome.
func (o *Observer) OnRequestEnded(d httphook.EndData) {
	ctx := context.Background()
	if d.Request != nil {
		ctx = d.Request.Context()
	}

	o.active.Add(ctx, -1, metric.WithAttributes(attribute.String("http.request.method", d.Method)))

	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", d.Method),
		attribute.Int("http.response.status_code", d.StatusCode),
	}

	if d.Err != nil {
		attrs = append(attrs, attribute.String("error.type", errorType(d.Err)))
	}

	opt := metric.WithAttributes(attrs...)
	o.requests.Add(ctx, 1, opt)
	o.duration.Record(ctx, d.Elapsed.Seconds(), opt)
}

// errorType classifies a failed request for the error.type attribute.
func errorType(err error) string {
	var pe *httphook.PanicError
	switch {
	case errors.As(err, &pe):
		return "panic"

	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"

	case errors.Is(err, context.Canceled):
		return "canceled"

	default:
		return "_OTHER"
	}
}
