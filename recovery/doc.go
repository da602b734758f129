// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package recovery implements an http.Handler that recovers from panics, allowing
configurable actions to take when a panic occurs.  It is the outer half of the
request hook's failure handling: the hook reports a panicking request to its
observers and re-raises the panic, and this middleware answers the client.
*/
package recovery
