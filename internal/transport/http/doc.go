// Package http exposes the pipeline over a chi-routed HTTP surface:
// POST /api/v1/pipeline runs a declarative request and returns the
// rendered table, GET /api/v1/formats lists supported input kinds and
// export formats, plus /healthz, /metrics, and the /ws progress stream.
package http
