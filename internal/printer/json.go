package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/BlackOrchardLabs/PyPulse/internal/model"
)

// JSONPrinter prints pulse state in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// progressOutput represents the progress record output.
type progressOutput struct {
	Active      bool       `json:"active"`
	TaskName    string     `json:"task_name,omitempty"`
	CurrentStep string     `json:"current_step,omitempty"`
	Progress    float64    `json:"progress"`
	ETASeconds  *int       `json:"eta_seconds,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	LastUpdate  *time.Time `json:"last_update,omitempty"`
	Error       string     `json:"error,omitempty"`
	PID         *int       `json:"pid,omitempty"`
}

// historyItem represents a completed task in the history output.
type historyItem struct {
	TaskName        string    `json:"task_name"`
	CompletedAt     time.Time `json:"completed_at"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
}

// positionOutput represents the widget position output.
type positionOutput struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintProgress prints the progress record in JSON format.
func (j *JSONPrinter) PrintProgress(record model.ProgressRecord) error {
	out := progressOutput{
		Active:      record.Active,
		TaskName:    record.TaskName,
		CurrentStep: record.CurrentStep,
		Progress:    record.Progress,
		ETASeconds:  record.ETASeconds,
		StartedAt:   record.StartedAt,
		LastUpdate:  record.LastUpdate,
		Error:       record.Error,
		PID:         record.OwnerPID,
	}

	return j.print(out)
}

// PrintHistory prints completed tasks in JSON format.
func (j *JSONPrinter) PrintHistory(history model.History) error {
	items := make([]historyItem, 0, len(history.CompletedTasks))
	for _, entry := range history.CompletedTasks {
		items = append(items, historyItem{
			TaskName:        entry.TaskName,
			CompletedAt:     entry.CompletedAt,
			DurationSeconds: entry.DurationSeconds,
		})
	}

	return j.print(items)
}

// PrintWidgetPosition prints the widget position in JSON format.
func (j *JSONPrinter) PrintWidgetPosition(pos model.WidgetPosition) error {
	return j.print(positionOutput{X: pos.X, Y: pos.Y})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.print(messageOutput{Message: msg})
}

func (j *JSONPrinter) print(v interface{}) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
