// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package observe decorates http.ResponseWriter objects so that the status code and
size of a response can be examined once a handler returns.  The request hook uses
it to report the response status to observers without altering the response.
*/
package observe
