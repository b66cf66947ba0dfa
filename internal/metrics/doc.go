// Package metrics provides build observability for pagebuilder.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so metrics stay optional:
//
//	svc := build.NewService(opts, build.Dependencies{Recorder: metrics.NoopRecorder{}})
//
// The serve command swaps in a PrometheusRecorder and exposes it through
// HTTPHandler on /metrics.
package metrics
