// Package pipeline runs a declarative Request through the linear stage
// sequence fetch → parse → normalize → transform → export. Stages execute
// synchronously in order; the first failure aborts the run and surfaces
// to the caller with its stage and kind intact.
//
// A Runner can report per-stage progress events to a listener (the
// websocket hub uses this) and record stage counters and durations on
// OpenTelemetry instruments.
package pipeline
