package printer

import "github.com/BlackOrchardLabs/PyPulse/internal/model"

// Printer knows how to print pulse state in different formats.
type Printer interface {
	PrintProgress(record model.ProgressRecord) error
	PrintHistory(history model.History) error
	PrintWidgetPosition(pos model.WidgetPosition) error
	PrintMessage(msg string) error
}
