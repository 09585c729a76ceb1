package printer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/BlackOrchardLabs/PyPulse/internal/model"
)

// TablePrinter prints pulse state in a human-readable format.
type TablePrinter struct {
	writer io.Writer
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w}
}

// PrintProgress prints the current progress record.
func (t *TablePrinter) PrintProgress(record model.ProgressRecord) error {
	if !record.Active && record.TaskName == "" {
		fmt.Fprintln(t.writer, "No task in progress.")
		return nil
	}

	status := "inactive"
	if record.Active {
		status = "active"
	}

	fmt.Fprintf(t.writer, "Task:       %s\n", record.TaskName)
	fmt.Fprintf(t.writer, "Status:     %s\n", status)
	fmt.Fprintf(t.writer, "Progress:   %.1f%%\n", record.Progress*100)

	if record.CurrentStep != "" {
		fmt.Fprintf(t.writer, "Step:       %s\n", record.CurrentStep)
	}

	if record.ETASeconds != nil {
		fmt.Fprintf(t.writer, "ETA:        %s\n", FormatSeconds(*record.ETASeconds))
	}

	if record.StartedAt != nil {
		fmt.Fprintf(t.writer, "Started:    %s\n", FormatTimestamp(*record.StartedAt))
	}

	if record.LastUpdate != nil {
		fmt.Fprintf(t.writer, "Updated:    %s\n", TimeAgo(*record.LastUpdate))
	}

	if record.OwnerPID != nil {
		fmt.Fprintf(t.writer, "PID:        %d\n", *record.OwnerPID)
	}

	if record.Error != "" {
		fmt.Fprintf(t.writer, "Error:      %s\n", record.Error)
	}

	return nil
}

// PrintHistory prints completed tasks in a table format.
func (t *TablePrinter) PrintHistory(history model.History) error {
	if len(history.CompletedTasks) == 0 {
		fmt.Fprintln(t.writer, "No completed tasks.")
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "TASK\tCOMPLETED\tDURATION")

	for _, entry := range history.CompletedTasks {
		duration := "-"
		if entry.DurationSeconds != nil {
			duration = FormatSeconds(*entry.DurationSeconds)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.TaskName, TimeAgo(entry.CompletedAt), duration)
	}

	return nil
}

// PrintWidgetPosition prints the widget position.
func (t *TablePrinter) PrintWidgetPosition(pos model.WidgetPosition) error {
	fmt.Fprintf(t.writer, "X:  %d\n", pos.X)
	fmt.Fprintf(t.writer, "Y:  %d\n", pos.Y)

	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)

	return nil
}
