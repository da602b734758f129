// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package httphook

import (
	"net/http"
	"strconv"
)

// ConstantHandler is an http.Handler that writes a statically defined HTTP response.
// It is handy as the decorated handler in tests and for fixed endpoints such as
// health checks, which are usually excluded from observation.
type ConstantHandler struct {
	// StatusCode is the response code to pass to http.ResponseWriter.WriteHeader.
	// If this value is less than 100 (which also includes being unset), then no
	// response code is written which will trigger the default of http.StatusOK.
	StatusCode int

	// Header is the set of headers added to every response
	Header http.Header

	// ContentType is the MIME type of the Body.  This field has no effect if Body
	// is not also set.
	ContentType string

	// Body is the optional HTTP entity body.  If unset, nothing is written for the response body.
	// A Content-Length header will be explicitly set if this field is set.
	Body []byte
}

// ConstantText is a convenience for a ConstantHandler that writes a plain text body.
func ConstantText(text string) ConstantHandler {
	return ConstantHandler{
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(text),
	}
}

// ServeHTTP returns the constant information in the response.
func (ch ConstantHandler) ServeHTTP(response http.ResponseWriter, _ *http.Request) {
	for name, values := range ch.Header {
		response.Header()[http.CanonicalHeaderKey(name)] = values
	}

	l := len(ch.Body)
	if l > 0 {
		response.Header().Set("Content-Length", strconv.Itoa(l))
		if len(ch.ContentType) > 0 {
			response.Header().Set("Content-Type", ch.ContentType)
		}
	}

	if ch.StatusCode >= 100 {
		response.WriteHeader(ch.StatusCode)
	}

	if l > 0 {
		response.Write(ch.Body)
	}
}
