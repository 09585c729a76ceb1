// Package memory implements storage.Repository in memory, mainly for tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
	// TimeNow returns the current time, defaults to time.Now in UTC.
	TimeNow func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})

	if c.TimeNow == nil {
		c.TimeNow = func() time.Time { return time.Now().UTC() }
	}

	return nil
}

// Repository is an in-memory implementation of storage.Repository with the
// same update, completion and reaping semantics as the state file store.
type Repository struct {
	progress model.ProgressRecord
	history  model.History
	position model.WidgetPosition
	mu       sync.Mutex
	logger   log.Logger
	timeNow  func() time.Time
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		history:  model.History{CompletedTasks: []model.HistoryEntry{}},
		position: model.DefaultWidgetPosition,
		logger:   cfg.Logger,
		timeNow:  cfg.TimeNow,
	}, nil
}

// UpdateProgress satisfies storage.Repository.
func (r *Repository) UpdateProgress(ctx context.Context, update model.ProgressUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeNow()

	record := model.ProgressRecord{
		Active:      true,
		TaskName:    update.TaskName,
		CurrentStep: update.CurrentStep,
		Progress:    clampRatio(update.Progress),
		LastUpdate:  &now,
		Error:       update.Error,
	}

	if r.progress.Active && r.progress.TaskName == update.TaskName {
		record.StartedAt = r.progress.StartedAt
		if record.Error == "" {
			record.Error = r.progress.Error
		}
	}
	if record.StartedAt == nil {
		startedAt := now
		record.StartedAt = &startedAt
	}

	if update.ETASeconds != nil && *update.ETASeconds >= 0 {
		eta := *update.ETASeconds
		record.ETASeconds = &eta
	}

	pid := update.OwnerPID
	if pid == 0 {
		pid = os.Getpid()
	}
	record.OwnerPID = &pid

	r.progress = record
	r.logger.Debugf("Updated progress for task %q", update.TaskName)

	return nil
}

// CompleteTask satisfies storage.Repository.
func (r *Repository) CompleteTask(ctx context.Context, taskName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.timeNow()
	entry := model.HistoryEntry{TaskName: taskName, CompletedAt: now}
	if r.progress.StartedAt != nil {
		duration := int(now.Sub(*r.progress.StartedAt).Seconds())
		entry.DurationSeconds = &duration
	}

	r.history.CompletedTasks = append([]model.HistoryEntry{entry}, r.history.CompletedTasks...)
	if len(r.history.CompletedTasks) > model.HistoryLimit {
		r.history.CompletedTasks = r.history.CompletedTasks[:model.HistoryLimit]
	}

	r.progress = model.ProgressRecord{}

	return nil
}

// ReapStale satisfies storage.Repository.
func (r *Repository) ReapStale(ctx context.Context, olderThan time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.progress.Active || r.progress.LastUpdate == nil {
		return false, nil
	}

	if r.timeNow().Sub(*r.progress.LastUpdate) <= olderThan {
		return false, nil
	}

	r.progress = model.ProgressRecord{
		TaskName:    r.progress.TaskName,
		CurrentStep: r.progress.CurrentStep,
		Progress:    r.progress.Progress,
		Error:       r.progress.Error,
	}

	return true, nil
}

// GetProgress satisfies storage.Repository.
func (r *Repository) GetProgress(ctx context.Context) (model.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.progress, nil
}

// GetHistory satisfies storage.Repository.
func (r *Repository) GetHistory(ctx context.Context) (model.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := model.History{CompletedTasks: make([]model.HistoryEntry, len(r.history.CompletedTasks))}
	copy(history.CompletedTasks, r.history.CompletedTasks)

	return history, nil
}

// SaveWidgetPosition satisfies storage.Repository.
func (r *Repository) SaveWidgetPosition(ctx context.Context, pos model.WidgetPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.position = pos

	return nil
}

// GetWidgetPosition satisfies storage.Repository.
func (r *Repository) GetWidgetPosition(ctx context.Context) (model.WidgetPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.position, nil
}

func clampRatio(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
