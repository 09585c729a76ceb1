package model

import (
	"time"
)

// ProgressRecord is the single current-progress snapshot shared between the
// producer process and the observer widget. There is exactly one record at
// any time; an inactive record keeps the last known displayable values.
type ProgressRecord struct {
	Active      bool
	TaskName    string
	CurrentStep string
	// Progress is the completion ratio, always in [0, 1].
	Progress float64
	// ETASeconds is the estimated seconds remaining, nil when unknown.
	ETASeconds *int
	// StartedAt is fixed at the first write of a task and preserved across
	// subsequent updates to the same task.
	StartedAt *time.Time
	// LastUpdate is the timestamp of the most recent write, used for
	// staleness detection.
	LastUpdate *time.Time
	// Error is the producer-reported failure, empty when none.
	Error string
	// OwnerPID identifies the producing process. Diagnostic only.
	OwnerPID *int
}

// ProgressUpdate carries a single progress report from a producer.
type ProgressUpdate struct {
	TaskName    string
	CurrentStep string
	Progress    float64
	ETASeconds  *int
	// Error marks the task as failing. An empty value never clears a
	// previously set error for the same task.
	Error string
	// OwnerPID overrides the reporting process PID, 0 means self.
	OwnerPID int
}

// HistoryEntry records a single completed task. Entries are never mutated
// after creation.
type HistoryEntry struct {
	TaskName    string
	CompletedAt time.Time
	// DurationSeconds is nil when the task never recorded a start time.
	DurationSeconds *int
}

// History is the bounded log of recently completed tasks, most recent first.
type History struct {
	CompletedTasks []HistoryEntry
}

// HistoryLimit is the maximum number of completed tasks kept in history.
const HistoryLimit = 10

// WidgetPosition is the persisted widget window position.
type WidgetPosition struct {
	X int
	Y int
}

// DefaultWidgetPosition is the position used before the widget has ever
// been moved.
var DefaultWidgetPosition = WidgetPosition{X: 100, Y: 100}
