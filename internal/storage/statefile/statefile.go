// Package statefile implements storage.Repository on top of the three JSON
// state documents polled by the observer widget.
package statefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/BlackOrchardLabs/PyPulse/internal/conventions"
	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
)

// RepositoryConfig is the configuration for the state file repository.
type RepositoryConfig struct {
	// DataDir is the directory holding the state documents. It is created
	// if it does not exist.
	DataDir string
	Logger  log.Logger
	// TimeNow returns the current time, defaults to time.Now in UTC.
	TimeNow func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.StateFile"})

	if c.TimeNow == nil {
		c.TimeNow = func() time.Time { return time.Now().UTC() }
	}

	return nil
}

// Repository persists progress, history and widget position as independent
// JSON documents. All operations are serialized through a single mutex;
// every document write goes through write-temp-then-rename so an external
// reader observes either the old or the new complete content.
type Repository struct {
	dataDir string
	logger  log.Logger
	timeNow func() time.Time
	mu      sync.Mutex
}

// NewRepository creates a new state file repository, ensuring the data
// directory and the three documents exist. Initialization is idempotent and
// never clobbers already-initialized state.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	r := &Repository{
		dataDir: cfg.DataDir,
		logger:  cfg.Logger,
		timeNow: cfg.TimeNow,
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create data dir: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ensureFilesLocked(); err != nil {
		return nil, fmt.Errorf("could not initialize state files: %w", err)
	}

	return r, nil
}

// ensureFilesLocked creates any missing state document with its default
// shape. Existing documents are left untouched (first writer wins).
func (r *Repository) ensureFilesLocked() error {
	progressPath := conventions.ProgressPath(r.dataDir)
	if _, err := os.Stat(progressPath); os.IsNotExist(err) {
		if err := r.writeDocumentLocked(progressPath, inactiveProgressDocument()); err != nil {
			return err
		}
	}

	historyPath := conventions.HistoryPath(r.dataDir)
	if _, err := os.Stat(historyPath); os.IsNotExist(err) {
		if err := r.writeDocumentLocked(historyPath, historyDocument{CompletedTasks: []historyEntryDocument{}}); err != nil {
			return err
		}
	}

	positionPath := conventions.WidgetPositionPath(r.dataDir)
	if _, err := os.Stat(positionPath); os.IsNotExist(err) {
		pos := widgetPositionDocument{X: model.DefaultWidgetPosition.X, Y: model.DefaultWidgetPosition.Y}
		if err := r.writeDocumentLocked(positionPath, pos); err != nil {
			return err
		}
	}

	return nil
}

// UpdateProgress satisfies storage.Repository.
func (r *Repository) UpdateProgress(ctx context.Context, update model.ProgressUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.readProgressLocked()
	now := r.timeNow()

	record := model.ProgressRecord{
		Active:      true,
		TaskName:    update.TaskName,
		CurrentStep: update.CurrentStep,
		Progress:    clampRatio(update.Progress),
		LastUpdate:  &now,
		Error:       update.Error,
	}

	// Start time and a previously reported error stick to the task.
	if current.Active && current.TaskName == update.TaskName {
		record.StartedAt = current.StartedAt
		if record.Error == "" {
			record.Error = current.Error
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

	return r.writeProgressLocked(record)
}

// CompleteTask satisfies storage.Repository.
func (r *Repository) CompleteTask(ctx context.Context, taskName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.readProgressLocked()
	now := r.timeNow()

	entry := model.HistoryEntry{
		TaskName:    taskName,
		CompletedAt: now,
	}
	if current.StartedAt != nil {
		duration := int(now.Sub(*current.StartedAt).Seconds())
		entry.DurationSeconds = &duration
	}

	history := r.readHistoryLocked()
	history.CompletedTasks = append([]model.HistoryEntry{entry}, history.CompletedTasks...)
	if len(history.CompletedTasks) > model.HistoryLimit {
		history.CompletedTasks = history.CompletedTasks[:model.HistoryLimit]
	}

	if err := r.writeHistoryLocked(history); err != nil {
		return fmt.Errorf("could not archive task: %w", err)
	}

	if err := r.writeProgressLocked(model.ProgressRecord{}); err != nil {
		return fmt.Errorf("could not clear progress: %w", err)
	}

	r.logger.Debugf("Completed task %q", taskName)

	return nil
}

// ReapStale satisfies storage.Repository.
func (r *Repository) ReapStale(ctx context.Context, olderThan time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.readProgressLocked()
	if !current.Active || current.LastUpdate == nil {
		return false, nil
	}

	idle := r.timeNow().Sub(*current.LastUpdate)
	if idle <= olderThan {
		return false, nil
	}

	// Mark inactive but keep what the widget can still display.
	reaped := model.ProgressRecord{
		TaskName:    current.TaskName,
		CurrentStep: current.CurrentStep,
		Progress:    current.Progress,
		Error:       current.Error,
	}
	if err := r.writeProgressLocked(reaped); err != nil {
		return false, fmt.Errorf("could not deactivate stale progress: %w", err)
	}

	r.logger.Infof("Deactivated stale task %q (idle %s)", current.TaskName, idle)

	return true, nil
}

// GetProgress satisfies storage.Repository.
func (r *Repository) GetProgress(ctx context.Context) (model.ProgressRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.readProgressLocked(), nil
}

// GetHistory satisfies storage.Repository.
func (r *Repository) GetHistory(ctx context.Context) (model.History, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.readHistoryLocked(), nil
}

// SaveWidgetPosition satisfies storage.Repository.
func (r *Repository) SaveWidgetPosition(ctx context.Context, pos model.WidgetPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := widgetPositionDocument{X: pos.X, Y: pos.Y}
	return r.writeDocumentLocked(conventions.WidgetPositionPath(r.dataDir), doc)
}

// GetWidgetPosition satisfies storage.Repository.
func (r *Repository) GetWidgetPosition(ctx context.Context) (model.WidgetPosition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var doc widgetPositionDocument
	if err := r.readDocumentLocked(conventions.WidgetPositionPath(r.dataDir), &doc); err != nil {
		r.logger.Errorf("Could not read widget position, using default: %s", err)
		return model.DefaultWidgetPosition, nil
	}

	return model.WidgetPosition{X: doc.X, Y: doc.Y}, nil
}

func (r *Repository) readProgressLocked() model.ProgressRecord {
	var doc progressDocument
	if err := r.readDocumentLocked(conventions.ProgressPath(r.dataDir), &doc); err != nil {
		r.logger.Errorf("Could not read progress, using inactive record: %s", err)
		return model.ProgressRecord{}
	}

	record, err := doc.toModel()
	if err != nil {
		r.logger.Errorf("Invalid progress document, using inactive record: %s", err)
		return model.ProgressRecord{}
	}

	return record
}

func (r *Repository) writeProgressLocked(record model.ProgressRecord) error {
	return r.writeDocumentLocked(conventions.ProgressPath(r.dataDir), newProgressDocument(record))
}

func (r *Repository) readHistoryLocked() model.History {
	var doc historyDocument
	if err := r.readDocumentLocked(conventions.HistoryPath(r.dataDir), &doc); err != nil {
		r.logger.Errorf("Could not read history, using empty history: %s", err)
		return model.History{CompletedTasks: []model.HistoryEntry{}}
	}

	history, err := doc.toModel()
	if err != nil {
		r.logger.Errorf("Invalid history document, using empty history: %s", err)
		return model.History{CompletedTasks: []model.HistoryEntry{}}
	}

	return history
}

func (r *Repository) writeHistoryLocked(history model.History) error {
	return r.writeDocumentLocked(conventions.HistoryPath(r.dataDir), newHistoryDocument(history))
}

func (r *Repository) readDocumentLocked(path string, into interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

// writeDocumentLocked replaces a document atomically by writing a unique
// temp file next to it and renaming it into place.
func (r *Repository) writeDocumentLocked(path string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", path, err)
	}
	data = append(data, '\n')

	tmpPath := fmt.Sprintf("%s.%s.tmp", path, ulid.Make())
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
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
