package recovery

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// OnRecover is a callback that receives information about a recovery object.
// Both the argument passed to panic and the debug stack trace are passed to this closure.
type OnRecover func(r interface{}, stack []byte)

// RecoverBody is a custom closure for writing recovery information.  By default,
// DefaultRecoverBody is used.
type RecoverBody func(w io.Writer, r interface{}, stack []byte)

// DefaultRecoverBody is the default strategy for writing the recovery argument.
// Only the generic status text is written, so that panic details never reach clients.
func DefaultRecoverBody(w io.Writer, _ interface{}, _ []byte) {
	io.WriteString(w, http.StatusText(http.StatusInternalServerError))
}

// VerboseRecoverBody writes a string representation of r, followed by the stack trace.
// This is only appropriate for development servers.
func VerboseRecoverBody(w io.Writer, r interface{}, stack []byte) {
	_, err := fmt.Fprintf(w, "%s\n", r)
	if err == nil {
		w.Write(stack)
	}
}

type decorator struct {
	next http.Handler

	header     http.Header
	body       RecoverBody
	statusCode int
	logger     *slog.Logger
	onRecover  []OnRecover
}

func (d *decorator) statusCodeFor(r interface{}) int {
	type statusCoder interface {
		StatusCode() int
	}

	if sc, ok := r.(statusCoder); ok && sc.StatusCode() >= 100 {
		return sc.StatusCode()
	} else if d.statusCode >= 100 {
		return d.statusCode
	}

	return http.StatusInternalServerError
}

func (d *decorator) writeResponse(response http.ResponseWriter, r interface{}, stack []byte) {
	for name, values := range d.header {
		for _, value := range values {
			response.Header().Add(name, value)
		}
	}

	response.WriteHeader(d.statusCodeFor(r))

	body := d.body
	if body == nil {
		body = DefaultRecoverBody
	}

	body(response, r, stack)
}

func (d *decorator) ServeHTTP(response http.ResponseWriter, request *http.Request) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		// net/http uses this value to abort a response silently
		if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
			panic(r)
		}

		stack := debug.Stack()
		if d.logger != nil {
			d.logger.Error(
				"handler panicked",
				slog.String("method", request.Method),
				slog.String("uri", request.URL.RequestURI()),
				slog.Any("panic", r),
			)
		}

		d.writeResponse(response, r, stack)
		for _, f := range d.onRecover {
			f(r, stack)
		}
	}()

	d.next.ServeHTTP(response, request)
}

// Option is a configurable option for a recovery decorator.
type Option interface {
	apply(*decorator)
}

type optionFunc func(*decorator)

func (of optionFunc) apply(d *decorator) { of(d) }

// WithOnRecover adds zero or more OnRecover callbacks to the middleware.
func WithOnRecover(f ...OnRecover) Option {
	return optionFunc(func(d *decorator) {
		d.onRecover = append(d.onRecover, f...)
	})
}

// WithRecoverBody adds a custom RecoverBody strategy for writing
// out recover objects.
func WithRecoverBody(rb RecoverBody) Option {
	return optionFunc(func(d *decorator) {
		d.body = rb
	})
}

// WithStatusCode sets a custom status code to use when a panic occurs.
func WithStatusCode(sc int) Option {
	return optionFunc(func(d *decorator) {
		d.statusCode = sc
	})
}

// WithHeader adds headers to write when a panic occurs.  This option
// is cumulative: headers from multiple calls will be merged together.
func WithHeader(h http.Header) Option {
	return optionFunc(func(d *decorator) {
		if d.header == nil {
			d.header = make(http.Header, len(h))
		}

		for name, values := range h {
			for _, value := range values {
				d.header.Add(name, value)
			}
		}
	})
}

// WithLogger logs each recovered panic at the error level.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(d *decorator) {
		d.logger = l
	})
}

// Middleware creates a http.Handler decorator that recovers any panics
// from downstream handlers.
//
// Place this middleware outside of the request hook.  The hook notifies its observers
// that the request ended and then lets the panic continue, so that this middleware
// can turn it into a response.
//
// By default, http.StatusInternalServerError is written along with the generic status text.
// If the panic value has a StatusCode() int method, that status is used instead.  Panics
// with http.ErrAbortHandler are not recovered, as net/http relies on them.
//
// Note that if any handlers wrote information to the HTTP response before the panic,
// the decorator may not be able to write panic information.
func Middleware(options ...Option) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		d := &decorator{
			next: next,
		}

		for _, o := range options {
			o.apply(d)
		}

		return d
	}
}
