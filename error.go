package httphook

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusClientClosedRequest is the nonstandard status reported in EndData when
// a request's context was canceled before the handler wrote a response.
const StatusClientClosedRequest = 499

// ErrNilObserver indicates an attempt to register a nil Observer.
var ErrNilObserver = errors.New("observer cannot be nil")

// ConfigError describes a problem with a hook's configuration.  These errors
// are returned by Builder.Build and are meant to stop a server from starting.
type ConfigError struct {
	// Op is the configuration step that failed, e.g. "exclude regex".
	Op string

	// Value is the offending configuration value, if any.
	Value string

	// Err is the cause of this error.  This field is required.
	Err error
}

// Unwrap produces the cause of this error
func (ce *ConfigError) Unwrap() error {
	return ce.Err
}

// Error fulfills the error interface.
func (ce *ConfigError) Error() string {
	if len(ce.Value) > 0 {
		return fmt.Sprintf("httphook: %s %q: %s", ce.Op, ce.Value, ce.Err)
	}

	return fmt.Sprintf("httphook: %s: %s", ce.Op, ce.Err)
}

// PanicError carries a panic recovered from a decorated handler.  It is reported
// in EndData.Err right before the panic is raised again.
type PanicError struct {
	// Value is the argument that was passed to panic.
	Value interface{}

	// Stack is the debug stack captured when the panic was recovered.
	Stack []byte
}

// Error fulfills the error interface.
func (pe *PanicError) Error() string {
	return fmt.Sprintf("handler panic: %v", pe.Value)
}

// Unwrap returns the panic value if it is an error, which allows errors.Is
// to detect things like http.ErrAbortHandler.
func (pe *PanicError) Unwrap() error {
	if err, ok := pe.Value.(error); ok {
		return err
	}

	return nil
}

// StatusCode returns the status code exposed by the panic value, if it has a
// StatusCode() int method.  Otherwise, http.StatusInternalServerError is returned.
func (pe *PanicError) StatusCode() int {
	type statusCoder interface {
		StatusCode() int
	}

	if sc, ok := pe.Value.(statusCoder); ok && sc.StatusCode() >= 100 {
		return sc.StatusCode()
	}

	return http.StatusInternalServerError
}
