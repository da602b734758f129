// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

/*
Package httphook is a server middleware that notifies observers when each request
starts and when it ends, without touching the application's handlers.

Observers receive a StartData before the decorated handler runs.  This includes a
request identifier, the URI, the method, and a copy of the request body.  The handler
still reads the complete body, since the hook replays what it captured.  Once the
handler returns, observers receive an EndData with the same identifier, the elapsed
time, and the response status.

	hook, err := httphook.New().
		Exclude("/health").
		ExcludeRegex(`^/\d+$`).
		Register(logger, metrics).
		Build()

	if err != nil {
		// bad regular expression, nil observer, etc
	}

	http.ListenAndServe(":8080", hook.Then(mux))

Observers are notified synchronously, in registration order, on the goroutine that
serves the request.  A panicking observer is recovered and reported, and it does not
affect other observers or the response.  If the decorated handler panics, observers
are still notified that the request ended before the panic continues up the stack.
*/
package httphook
