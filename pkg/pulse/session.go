package pulse

import (
	"context"
	"fmt"
	"sync"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
)

// SessionConfig configures a multi-step task session.
type SessionConfig struct {
	// TaskName is the task identifier reported to the widget. Required.
	TaskName string

	// TotalSteps is the number of named steps. Zero is allowed and makes
	// every derived progress 0; negative values are invalid.
	TotalSteps int

	// StepFormat formats step text from the step index, total and
	// description. Default: "Step %d/%d: %s".
	StepFormat string
}

func (c *SessionConfig) defaults() error {
	if c.TaskName == "" {
		return fmt.Errorf("task name is required")
	}

	if c.TotalSteps < 0 {
		return fmt.Errorf("total steps must not be negative: %w", model.ErrNotValid)
	}

	if c.StepFormat == "" {
		c.StepFormat = "Step %d/%d: %s"
	}

	return nil
}

// Session is the step-oriented counterpart to [Tracker] for workflows
// expressed as a fixed number of named phases. It is safe for concurrent
// use.
//
// A Session must be released exactly once on every exit path; the usual
// shape is:
//
//	sess, err := client.NewSession(ctx, pulse.SessionConfig{TaskName: "Build", TotalSteps: 3})
//	if err != nil {
//	    return err
//	}
//	defer func() { sess.End(err) }()
type Session struct {
	repo   storage.Repository
	logger log.Logger
	ctx    context.Context

	taskName   string
	totalSteps int
	stepFormat string

	mu     sync.Mutex
	step   int
	closed bool
}

// NewSession creates a session and immediately publishes a "Starting..."
// record at progress 0.
func (c *Client) NewSession(ctx context.Context, cfg SessionConfig) (*Session, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	s := &Session{
		repo:       c.repo,
		logger:     c.logger.WithValues(log.Kv{"svc": "pulse.Session", "task": cfg.TaskName}),
		ctx:        ctx,
		taskName:   cfg.TaskName,
		totalSteps: cfg.TotalSteps,
		stepFormat: cfg.StepFormat,
	}

	s.publish("Starting...", 0)

	return s, nil
}

// Step reports completion of the next step, deriving progress from the step
// index. Calls beyond the configured total are accepted; the store clamps
// the derived ratio.
func (s *Session) Step(description string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.step++
	progress := s.ratioLocked()
	text := fmt.Sprintf(s.stepFormat, s.step, s.totalSteps, description)
	s.mu.Unlock()

	s.publish(text, progress)
}

// StepAt reports completion of the next step with an explicit progress
// ratio instead of the derived one.
func (s *Session) StepAt(description string, progress float64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.step++
	text := fmt.Sprintf(s.stepFormat, s.step, s.totalSteps, description)
	s.mu.Unlock()

	s.publish(text, progress)
}

// UpdateProgress reports progress within the current step without advancing
// the step counter. An empty description defaults to "Step i/n".
func (s *Session) UpdateProgress(progress float64, description string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	text := description
	if text == "" {
		text = fmt.Sprintf("Step %d/%d", s.step, s.totalSteps)
	}
	s.mu.Unlock()

	s.publish(text, progress)
}

// Close marks the session closed and completes the task exactly once,
// regardless of how many times it is invoked.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if err := s.repo.CompleteTask(s.ctx, s.taskName); err != nil {
		s.logger.Warningf("Could not complete task: %s", err)
	}
}

// Fail is the escaping-failure exit path: it runs the normal close
// bookkeeping, then publishes an error record at the last known step ratio
// so the widget can render what went wrong. A nil error behaves like Close.
func (s *Session) Fail(err error) {
	if err == nil {
		s.Close()
		return
	}

	s.mu.Lock()
	progress := s.ratioLocked()
	s.mu.Unlock()

	s.Close()

	update := model.ProgressUpdate{
		TaskName:    s.taskName,
		CurrentStep: "Error occurred",
		Progress:    progress,
		Error:       err.Error(),
	}
	if uerr := s.repo.UpdateProgress(s.ctx, update); uerr != nil {
		s.logger.Warningf("Could not publish task error: %s", uerr)
	}
}

// End dispatches to [Session.Fail] or [Session.Close] depending on err.
// It is meant for deferred calls with a named return error.
func (s *Session) End(err error) {
	if err != nil {
		s.Fail(err)
		return
	}

	s.Close()
}

func (s *Session) ratioLocked() float64 {
	if s.totalSteps <= 0 {
		return 0
	}

	return float64(s.step) / float64(s.totalSteps)
}

// publish writes a snapshot, swallowing storage errors: progress reporting
// must never break the work it reports on.
func (s *Session) publish(step string, progress float64) {
	update := model.ProgressUpdate{
		TaskName:    s.taskName,
		CurrentStep: step,
		Progress:    progress,
	}
	if err := s.repo.UpdateProgress(s.ctx, update); err != nil {
		s.logger.Warningf("Could not update progress: %s", err)
	}
}
