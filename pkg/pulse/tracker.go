package pulse

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/printer"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
)

// TrackerConfig configures a progress tracker.
type TrackerConfig struct {
	// Description is the task name reported to the widget.
	// Default: "Processing".
	Description string

	// StepLabel identifies the step within a larger pipeline ("2/3").
	// Default: "1/1".
	StepLabel string

	// Total is the expected item count. Zero or negative means unknown:
	// progress is reported as 0 and no ETA is computed.
	Total int

	// Unit is the item unit shown in the step text. Default: "it".
	Unit string

	// MinInterval bounds how often snapshots are written. Default: 100ms.
	MinInterval time.Duration

	// Disabled turns every tracker operation into a no-op.
	Disabled bool

	// Leave prints a final summary line to Out when the tracker closes.
	Leave bool

	// Out receives the final summary. Default: os.Stderr.
	Out io.Writer
}

func (c *TrackerConfig) defaults() error {
	if c.Description == "" {
		c.Description = "Processing"
	}

	if c.StepLabel == "" {
		c.StepLabel = "1/1"
	}

	if c.Unit == "" {
		c.Unit = "it"
	}

	if c.MinInterval <= 0 {
		c.MinInterval = model.DefaultTrackerMinInterval
	}

	if c.Out == nil {
		c.Out = os.Stderr
	}

	return nil
}

// Tracker converts a sequence of discrete advances into progress snapshots
// with throughput-based ETA. It is safe for concurrent use.
//
// A Tracker must be released with [Tracker.Close]; use [Wrap] to tie the
// close to the iteration lifecycle.
type Tracker struct {
	repo   storage.Repository
	logger log.Logger
	ctx    context.Context

	description string
	stepLabel   string
	unit        string
	minInterval time.Duration
	disabled    bool
	leave       bool
	out         io.Writer

	mu        sync.Mutex
	total     int
	n         int
	startedAt time.Time
	lastEmit  time.Time
	closed    bool

	timeNow func() time.Time
}

// NewTracker creates a progress tracker bound to the client's store. The
// given context is used for every snapshot write during the tracker's life.
// Unless disabled, the tracker immediately publishes a zero-progress
// snapshot.
func (c *Client) NewTracker(ctx context.Context, cfg TrackerConfig) (*Tracker, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	t := &Tracker{
		repo:        c.repo,
		logger:      c.logger.WithValues(log.Kv{"svc": "pulse.Tracker", "task": cfg.Description}),
		ctx:         ctx,
		description: cfg.Description,
		stepLabel:   cfg.StepLabel,
		unit:        cfg.Unit,
		minInterval: cfg.MinInterval,
		disabled:    cfg.Disabled,
		leave:       cfg.Leave,
		out:         cfg.Out,
		total:       cfg.Total,
		timeNow:     func() time.Time { return time.Now().UTC() },
	}

	now := t.timeNow()
	t.startedAt = now
	t.lastEmit = now

	if !t.disabled {
		t.mu.Lock()
		t.emitLocked(now)
		t.mu.Unlock()
	}

	return t, nil
}

// Advance increments the item counter by n and publishes a snapshot when
// the minimum interval since the last one has passed. It is a no-op on a
// disabled or closed tracker.
func (t *Tracker) Advance(n int) {
	if t.disabled {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}

	t.n += n

	now := t.timeNow()
	if now.Sub(t.lastEmit) >= t.minInterval {
		t.emitLocked(now)
		t.lastEmit = now
	}
}

// Count returns the number of items advanced so far.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.n
}

// Close marks the task complete in the store and, when configured to leave
// a trace, prints a final summary. It is idempotent and a no-op on a
// disabled tracker.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	n := t.n
	elapsed := t.timeNow().Sub(t.startedAt)
	t.mu.Unlock()

	if t.disabled {
		return
	}

	if n > 0 {
		if err := t.repo.CompleteTask(t.ctx, t.description); err != nil {
			t.logger.Warningf("Could not complete task: %s", err)
		}
	}

	if t.leave {
		t.printSummary(n, elapsed)
	}
}

// setTotalIfUnknown sets the total when the tracker was built without one.
func (t *Tracker) setTotalIfUnknown(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.total <= 0 {
		t.total = total
	}
}

// emitLocked publishes the current snapshot. Storage failures are logged
// and swallowed, progress reporting must never break the work it reports on.
func (t *Tracker) emitLocked(now time.Time) {
	update := model.ProgressUpdate{
		TaskName:    t.description,
		CurrentStep: t.stepText(),
	}

	if t.total > 0 {
		update.Progress = float64(t.n) / float64(t.total)
		update.ETASeconds = t.etaLocked(now)
	}

	if err := t.repo.UpdateProgress(t.ctx, update); err != nil {
		t.logger.Warningf("Could not update progress: %s", err)
	}
}

func (t *Tracker) stepText() string {
	totalText := "?"
	if t.total > 0 {
		totalText = fmt.Sprintf("%d", t.total)
	}

	return fmt.Sprintf("%s: %d/%s%s", t.stepLabel, t.n, totalText, t.unit)
}

// etaLocked estimates the seconds remaining from the observed throughput,
// nil when there is no throughput signal yet.
func (t *Tracker) etaLocked(now time.Time) *int {
	if t.total <= 0 || t.n <= 0 {
		return nil
	}

	elapsed := now.Sub(t.startedAt).Seconds()
	if elapsed <= 0 {
		return nil
	}

	speed := float64(t.n) / elapsed
	if speed <= 0 {
		return nil
	}

	remaining := float64(t.total-t.n) / speed
	if remaining < 0 {
		remaining = 0
	}
	eta := int(remaining)

	return &eta
}

func (t *Tracker) printSummary(n int, elapsed time.Duration) {
	elapsedText := printer.FormatSeconds(int(elapsed.Seconds()))

	if t.total > 0 {
		percentage := float64(n) / float64(t.total) * 100
		speed := 0.0
		if elapsed.Seconds() > 0 {
			speed = float64(n) / elapsed.Seconds()
		}
		fmt.Fprintf(t.out, "%s: %d/%d (%.1f%%) [%s, %.2f%s/s]\n",
			t.description, n, t.total, percentage, elapsedText, speed, t.unit)
		return
	}

	fmt.Fprintf(t.out, "%s: %d items processed [%s]\n", t.description, n, elapsedText)
}
