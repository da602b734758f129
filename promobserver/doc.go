/*
Package promobserver provides an httphook.Observer backed by Prometheus client
instruments.  The Observer is itself a prometheus.Collector:

	o := promobserver.New(promobserver.Config{Namespace: "myapp"})
	registry.MustRegister(o)

	hook := httphook.New().Register(o).MustBuild()
*/
package promobserver
