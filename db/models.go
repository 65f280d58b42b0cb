package db

import "time"

// Task status values stored in trim_tasks.status.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// TrimTask represents a row in the trim_tasks table: one applied
// [start, end] interval waiting to be cut out of its source video.
type TrimTask struct {
	ID         int64
	UUID       string
	VideoPath  string
	Start      float64
	End        float64
	Status     string
	OutputPath string
	Filesize   int64
	StartedAt  *time.Time
	FinishedAt *time.Time
	ErrorAt    *time.Time
	Log        string
	CreatedAt  time.Time
}

// PendingTask is the subset of a trim task the worker needs to cut it.
type PendingTask struct {
	ID        int64
	UUID      string
	VideoPath string
	Start     float64
	End       float64
}
