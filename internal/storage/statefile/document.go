package statefile

import (
	"fmt"
	"time"

	"github.com/BlackOrchardLabs/PyPulse/internal/model"
)

// progressDocument is the wire representation of the progress state shared
// with the observer widget. Field names and null semantics are part of the
// consumer contract, do not change them.
type progressDocument struct {
	Active      bool    `json:"active"`
	TaskName    *string `json:"task_name"`
	CurrentStep *string `json:"current_step"`
	Progress    float64 `json:"progress"`
	ETASeconds  *int    `json:"eta_seconds"`
	StartedAt   *string `json:"started_at"`
	LastUpdate  *string `json:"last_update"`
	Error       *string `json:"error"`
	PID         *int    `json:"pid"`
}

type historyDocument struct {
	CompletedTasks []historyEntryDocument `json:"completed_tasks"`
}

type historyEntryDocument struct {
	TaskName        string `json:"task_name"`
	CompletedAt     string `json:"completed_at"`
	DurationSeconds *int   `json:"duration_seconds"`
}

type widgetPositionDocument struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func inactiveProgressDocument() progressDocument {
	return newProgressDocument(model.ProgressRecord{})
}

func newProgressDocument(record model.ProgressRecord) progressDocument {
	doc := progressDocument{
		Active:     record.Active,
		Progress:   record.Progress,
		ETASeconds: record.ETASeconds,
		PID:        record.OwnerPID,
	}

	if record.TaskName != "" {
		doc.TaskName = &record.TaskName
	}
	if record.CurrentStep != "" {
		doc.CurrentStep = &record.CurrentStep
	}
	if record.Error != "" {
		doc.Error = &record.Error
	}
	if record.StartedAt != nil {
		doc.StartedAt = timestampString(*record.StartedAt)
	}
	if record.LastUpdate != nil {
		doc.LastUpdate = timestampString(*record.LastUpdate)
	}

	return doc
}

func (d progressDocument) toModel() (model.ProgressRecord, error) {
	record := model.ProgressRecord{
		Active:     d.Active,
		Progress:   d.Progress,
		ETASeconds: d.ETASeconds,
		OwnerPID:   d.PID,
	}

	if d.TaskName != nil {
		record.TaskName = *d.TaskName
	}
	if d.CurrentStep != nil {
		record.CurrentStep = *d.CurrentStep
	}
	if d.Error != nil {
		record.Error = *d.Error
	}

	var err error
	record.StartedAt, err = parseTimestamp(d.StartedAt)
	if err != nil {
		return model.ProgressRecord{}, fmt.Errorf("invalid started_at: %w", err)
	}
	record.LastUpdate, err = parseTimestamp(d.LastUpdate)
	if err != nil {
		return model.ProgressRecord{}, fmt.Errorf("invalid last_update: %w", err)
	}

	return record, nil
}

func newHistoryDocument(history model.History) historyDocument {
	doc := historyDocument{CompletedTasks: make([]historyEntryDocument, 0, len(history.CompletedTasks))}
	for _, entry := range history.CompletedTasks {
		doc.CompletedTasks = append(doc.CompletedTasks, historyEntryDocument{
			TaskName:        entry.TaskName,
			CompletedAt:     *timestampString(entry.CompletedAt),
			DurationSeconds: entry.DurationSeconds,
		})
	}

	return doc
}

func (d historyDocument) toModel() (model.History, error) {
	history := model.History{CompletedTasks: make([]model.HistoryEntry, 0, len(d.CompletedTasks))}
	for _, entry := range d.CompletedTasks {
		completedAt, err := parseTimestamp(&entry.CompletedAt)
		if err != nil {
			return model.History{}, fmt.Errorf("invalid completed_at: %w", err)
		}

		history.CompletedTasks = append(history.CompletedTasks, model.HistoryEntry{
			TaskName:        entry.TaskName,
			CompletedAt:     *completedAt,
			DurationSeconds: entry.DurationSeconds,
		})
	}

	return history, nil
}

func timestampString(t time.Time) *string {
	s := t.UTC().Format(time.RFC3339Nano)
	return &s
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339Nano, *s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()

	return &t, nil
}
