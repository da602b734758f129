package logobserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/xmidt-org/httphook"
)

// Option is a configurable option for a logging Observer.
type Option func(*Observer)

// WithLevel sets the level used for request starts and for successful request ends.
// The default is slog.LevelInfo.  Client errors are logged at warn and server
// errors at error regardless of this level.
func WithLevel(l slog.Level) Option {
	return func(o *Observer) {
		o.level = l
	}
}

// WithSlowThreshold causes requests that take at least d to be logged at warn,
// with a "slow" attribute.  A nonpositive value disables this behavior.
func WithSlowThreshold(d time.Duration) Option {
	return func(o *Observer) {
		o.slowThreshold = d
	}
}

// WithStarted controls whether request starts are logged.  Starts are logged by default.
func WithStarted(logStarted bool) Option {
	return func(o *Observer) {
		o.logStarted = logStarted
	}
}

// WithBodySize controls whether the size of the request body is included in
// start entries.  The body itself is never logged.
func WithBodySize(include bool) Option {
	return func(o *Observer) {
		o.bodySize = include
	}
}

// Observer is an httphook.Observer that writes request starts and ends to a structured logger.
// An Observer holds no mutable state, so it is safe for concurrent requests.
type Observer struct {
	logger        *slog.Logger
	level         slog.Level
	slowThreshold time.Duration
	logStarted    bool
	bodySize      bool
}

var _ httphook.Observer = (*Observer)(nil)

// New creates a logging Observer.  If logger is nil, slog.Default() is used.
func New(logger *slog.Logger, opts ...Option) *Observer {
	if logger == nil {
		logger = slog.Default()
	}

	o := &Observer{
		logger:     logger,
		level:      slog.LevelInfo,
		logStarted: true,
	}

	for _, f := range opts {
		f(o)
	}

	return o
}

// contextOf returns the request's context, or context.Background() if there is no request.
func contextOf(request *http.Request) context.Context {
	if request != nil {
		return request.Context()
	}

	return context.Background()
}

// OnRequestStarted logs the start of a request.
func (o *Observer) OnRequestStarted(d httphook.StartData) {
	if !o.logStarted {
		return
	}

	attrs := []slog.Attr{
		slog.String("requestID", d.RequestID.String()),
		slog.String("method", d.Method),
		slog.String("uri", d.URI),
	}

	if o.bodySize {
		attrs = append(attrs, slog.Int("bodySize", len(d.Body)))
	}

	if d.BodyErr != nil {
		attrs = append(attrs, slog.String("bodyError", d.BodyErr.Error()))
	}

	o.logger.LogAttrs(contextOf(d.Request), o.level, "request started", attrs...)
}

// OnRequestEnded logs the end of a request.  The level depends on the outcome.
func (o *Observer) OnRequestEnded(d httphook.EndData) {
	var (
		slow  = o.slowThreshold > 0 && d.Elapsed >= o.slowThreshold
		attrs = []slog.Attr{
			slog.String("requestID", d.RequestID.String()),
			slog.String("method", d.Method),
			slog.String("uri", d.URI),
			slog.Int("status", d.StatusCode),
			slog.Float64("elapsedMS", float64(d.Elapsed)/float64(time.Millisecond)),
		}
	)

	if slow {
		attrs = append(attrs, slog.Bool("slow", true))
	}

	if d.Err != nil {
		attrs = append(attrs, slog.String("error", d.Err.Error()))
	}

	level := o.level
	switch {
	case d.StatusCode >= 500 || d.Err != nil:
		level = slog.LevelError
	case d.StatusCode >= 400 || slow:
		level = max(level, slog.LevelWarn)
	}

	o.logger.LogAttrs(contextOf(d.Request), level, "request ended", attrs...)
}
