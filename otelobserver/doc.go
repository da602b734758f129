/*
Package otelobserver provides an httphook.Observer that records request counts,
durations, body sizes, and in-flight requests as OpenTelemetry metrics.
*/
package otelobserver
