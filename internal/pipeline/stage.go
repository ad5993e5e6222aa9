package pipeline

import (
	"time"
)

// Stage names in execution order.
const (
	StageFetch     = "fetch"
	StageParse     = "parse"
	StageNormalize = "normalize"
	StageTransform = "transform"
	StageExport    = "export"
)

// StageStatus is the lifecycle state of one stage during a run.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusActive    StageStatus = "active"
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// Event reports a stage transition to progress listeners.
type Event struct {
	RunID   string        `json:"run_id"`
	Stage   string        `json:"stage"`
	Status  StageStatus   `json:"status"`
	Message string        `json:"message,omitempty"`
	Rows    int           `json:"rows,omitempty"`
	Elapsed time.Duration `json:"elapsed,omitempty"`
	At      time.Time     `json:"at"`
}

// ProgressFunc receives stage events during a run. Callbacks run on the
// pipeline goroutine; listeners must not block.
type ProgressFunc func(Event)
