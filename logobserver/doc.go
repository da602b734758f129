/*
Package logobserver provides an httphook.Observer that logs each request's start
and end through log/slog.

	hook := httphook.New().
		Register(logobserver.New(logger, logobserver.WithSlowThreshold(time.Second))).
		MustBuild()
*/
package logobserver
