package httphook

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/xmidt-org/httphook/observe"
)

// Builder is a fluent builder for a Hook.  This type should be constructed with New.
// A Builder is not safe for concurrent use, and it is meant to be used once at startup.
type Builder struct {
	excluder    Excluder
	observers   Observers
	logger      *slog.Logger
	onPanic     []OnObserverPanic
	idGenerator func() uuid.UUID
	errs        []error
}

// New starts building a request hook.
func New() *Builder {
	return new(Builder)
}

// Exclude adds paths that are never observed.  The request's URL.Path must equal
// one of these paths exactly.
func (b *Builder) Exclude(paths ...string) *Builder {
	b.excluder.AddPath(paths...)
	return b
}

// ExcludeRegex adds regular expressions for paths that are never observed.  A path
// is excluded if any pattern matches anywhere within it.  A pattern that does not
// compile causes Build to fail.
func (b *Builder) ExcludeRegex(patterns ...string) *Builder {
	for _, p := range patterns {
		if err := b.excluder.AddPattern(p); err != nil {
			b.errs = append(b.errs, err)
		}
	}

	return b
}

// Register appends observers.  Observers are notified in the order they are registered.
// A nil observer causes Build to fail.
func (b *Builder) Register(observers ...Observer) *Builder {
	for _, o := range observers {
		if o == nil {
			b.errs = append(b.errs, &ConfigError{
				Op:  "register",
				Err: ErrNilObserver,
			})

			continue
		}

		b.observers = append(b.observers, o)
	}

	return b
}

// Logger sets the logger used to report observer panics.  By default, slog.Default()
// is used at the time Build is called.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

// OnObserverPanic adds callbacks that are notified when an observer panics.
func (b *Builder) OnObserverPanic(f ...OnObserverPanic) *Builder {
	b.onPanic = append(b.onPanic, f...)
	return b
}

// IDGenerator sets the strategy for creating request identifiers.  The default is
// uuid.New, which produces random (version 4) UUIDs.  This is mainly useful for tests.
func (b *Builder) IDGenerator(f func() uuid.UUID) *Builder {
	b.idGenerator = f
	return b
}

// Build produces an immutable Hook from this builder's configuration.  Any configuration
// errors are joined and returned, in which case the Hook is nil.  Changes made to this
// Builder after Build returns do not affect the returned Hook.
func (b *Builder) Build() (*Hook, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	h := &Hook{
		idGenerator: b.idGenerator,
		dispatcher: dispatcher{
			observers: Observers(nil).Append(b.observers...),
			logger:    b.logger,
			onPanic:   append([]OnObserverPanic(nil), b.onPanic...),
		},
	}

	if !b.excluder.Empty() {
		h.excluder = b.excluder.clone()
	}

	if h.idGenerator == nil {
		h.idGenerator = uuid.New
	}

	if h.dispatcher.logger == nil {
		h.dispatcher.logger = slog.Default()
	}

	return h, nil
}

// MustBuild is like Build, but panics if the configuration is invalid.
func (b *Builder) MustBuild() *Hook {
	h, err := b.Build()
	if err != nil {
		panic(err)
	}

	return h
}

// Hook is a server middleware that notifies observers when requests start and end.
// A Hook is immutable and safe for concurrent use.  Create one with New and Build.
// The zero value observes nothing and excludes nothing.
type Hook struct {
	excluder    *Excluder
	idGenerator func() uuid.UUID
	dispatcher  dispatcher
}

// Observers returns a copy of the observers this hook notifies, in dispatch order.
func (h *Hook) Observers() Observers {
	return Observers(nil).Append(h.dispatcher.observers...)
}

// IsExcluded tests if requests for the given path bypass this hook.
func (h *Hook) IsExcluded(path string) bool {
	return h.excluder.IsExcluded(path)
}

// Then decorates next so that registered observers are notified of each request.
// If there are no observers, next is returned as is since there would be nothing
// to notify.
func (h *Hook) Then(next http.Handler) http.Handler {
	if h.dispatcher.observers.Len() == 0 {
		return next
	}

	return &decorator{
		Hook: h,
		next: next,
	}
}

// Middleware returns Then as a function, which is the form most routers accept.
func (h *Hook) Middleware() func(http.Handler) http.Handler {
	return h.Then
}

// decorator is the http.Handler produced by Hook.Then
type decorator struct {
	*Hook
	next http.Handler
}

func (d *decorator) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	if d.excluder.IsExcluded(request.URL.Path) {
		d.next.ServeHTTP(response, request)
		return
	}

	var (
		requestID   = d.idGenerator()
		uri         = request.URL.RequestURI()
		method      = request.Method
		replay, cb  = captureBody(request)
		start       = time.Now()
		observation = observe.New(response)
	)

	d.dispatcher.started(StartData{
		RequestID: requestID,
		URI:       uri,
		Method:    method,
		Body:      cb.observed(),
		BodyErr:   cb.err,
		Request:   replay,
	})

	// normal returns and panics both end up here, so observers see every request end
	defer func() {
		r := recover()
		ed := EndData{
			RequestID: requestID,
			URI:       uri,
			Method:    method,
			Elapsed:   time.Since(start),
			Request:   replay,
		}

		var pe *PanicError
		if r != nil {
			pe = &PanicError{
				Value: r,
				Stack: debug.Stack(),
			}

			ed.Err = pe
		} else if err := replay.Context().Err(); err != nil && !responded(observation) {
			// a client that leaves after the response was written is not a failure
			ed.Err = err
		}

		ed.StatusCode = endStatus(observation, pe, ed.Err)
		d.dispatcher.ended(ed)

		if r != nil {
			panic(r)
		}
	}()

	d.next.ServeHTTP(observation, replay)
}

// responded tests if the decorated handler produced any response.
func responded(o observe.Writer) bool {
	return o.StatusCode() > 0 || o.Hijacked()
}

// endStatus determines the best available status code for a finished request.
func endStatus(o observe.Writer, pe *PanicError, err error) int {
	switch {
	case o.StatusCode() > 0:
		return o.StatusCode()

	case o.Hijacked():
		return http.StatusSwitchingProtocols

	case pe != nil:
		return pe.StatusCode()

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case err != nil:
		return StatusClientClosedRequest

	default:
		// net/http writes this when a handler returns without writing anything
		return http.StatusOK
	}
}
