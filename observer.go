package httphook

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// StartData is passed to Observer.OnRequestStarted before the decorated handler
// is invoked.
type StartData struct {
	// RequestID uniquely identifies this request.  The same value is passed
	// in the EndData for this request.
	RequestID uuid.UUID

	// URI is the request URI, i.e. the path and any query.
	URI string

	// Method is the HTTP method of the request.
	Method string

	// Body holds the bytes read from the request body.  Observers share a copy
	// that is independent of what the decorated handler will read, so modifying
	// it has no effect on the request.  Treat it as read-only all the same, since
	// later observers see the same slice.  This field is nil for requests that
	// have no body.
	Body []byte

	// BodyErr is the error, if any, encountered while reading the request body.
	// When set, Body holds whatever was read before the error and the decorated
	// handler will see the same bytes followed by the same error.
	BodyErr error

	// Request is the in-flight request.  Observers must not read Request.Body
	// or retain this pointer past the callback.
	Request *http.Request
}

// EndData is passed to Observer.OnRequestEnded once the decorated handler has returned,
// whether normally or by panicking.
type EndData struct {
	// RequestID is the same identifier that was passed in StartData.
	RequestID uuid.UUID

	// URI is the request URI, i.e. the path and any query.
	URI string

	// Method is the HTTP method of the request.
	Method string

	// Elapsed is the time between the capture of StartData and the capture of EndData.
	// It includes every started callback and the decorated handler itself.
	Elapsed time.Duration

	// StatusCode is the response code the decorated handler wrote.  If the handler
	// wrote nothing, this is http.StatusOK for a normal return or the best available
	// error status for a failed request.
	StatusCode int

	// Err describes a failed request.  It is a *PanicError if the decorated handler
	// panicked, the request context's error if the request was canceled or timed out
	// before anything was written, and nil otherwise.
	Err error

	// Request is the same request passed in StartData.  The same restrictions apply.
	Request *http.Request
}

// Observer is notified when a request starts and when it ends.  Both methods are
// invoked synchronously on the goroutine serving the request, and OnRequestStarted
// always happens before OnRequestEnded for any given request.
//
// The same Observer is called concurrently for different requests.  Implementations
// that keep state must synchronize access to it.
type Observer interface {
	// OnRequestStarted is invoked before the decorated handler.
	OnRequestStarted(StartData)

	// OnRequestEnded is invoked after the decorated handler.
	OnRequestEnded(EndData)
}

// ObserverFuncs is an Observer built from closures.  Either field may be nil.
type ObserverFuncs struct {
	Started func(StartData)
	Ended   func(EndData)
}

// OnRequestStarted invokes the Started closure, if set.
func (of ObserverFuncs) OnRequestStarted(d StartData) {
	if of.Started != nil {
		of.Started(d)
	}
}

// OnRequestEnded invokes the Ended closure, if set.
func (of ObserverFuncs) OnRequestEnded(d EndData) {
	if of.Ended != nil {
		of.Ended(d)
	}
}
