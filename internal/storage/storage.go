package storage

import (
	"context"
	"time"

	"github.com/BlackOrchardLabs/PyPulse/internal/model"
)

// Repository is the interface for the shared progress state. Implementations
// must serialize all operations so a reader never observes a write in
// progress within the same process. Cross-process safety is limited to each
// persisted document being replaced atomically.
type Repository interface {
	// UpdateProgress writes the current progress record wholesale. It clamps
	// the progress ratio into [0, 1], stamps the first write of a task with
	// a start time and preserves it on subsequent updates to the same task.
	UpdateProgress(ctx context.Context, update model.ProgressUpdate) error

	// CompleteTask archives the current task into history (trimmed to the
	// most recent model.HistoryLimit entries) and resets the progress record
	// to the inactive template.
	CompleteTask(ctx context.Context, taskName string) error

	// ReapStale deactivates the progress record when its last update is
	// older than olderThan, preserving the last known displayable values.
	// It reports whether a record was reaped.
	ReapStale(ctx context.Context, olderThan time.Duration) (bool, error)

	// GetProgress returns the current progress record. Missing or corrupt
	// state degrades to the inactive template instead of failing.
	GetProgress(ctx context.Context) (model.ProgressRecord, error)

	// GetHistory returns the completed tasks, most recent first. Missing or
	// corrupt state degrades to an empty history instead of failing.
	GetHistory(ctx context.Context) (model.History, error)

	// SaveWidgetPosition overwrites the widget position unconditionally.
	SaveWidgetPosition(ctx context.Context, pos model.WidgetPosition) error

	// GetWidgetPosition returns the saved widget position, or the default
	// position when none was ever saved.
	GetWidgetPosition(ctx context.Context) (model.WidgetPosition, error)
}
