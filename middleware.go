package httphook

import "net/http"

// ServerMiddleware represents a bundle of decorators for HTTP handlers.
// justinas/alice.Chain implements this interface, as does Hook.
type ServerMiddleware interface {
	Then(http.Handler) http.Handler
}

var _ ServerMiddleware = (*Hook)(nil)
