// Package clear implements the application service that explicitly clears
// the current progress record.
package clear

import (
	"context"
	"fmt"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
)

// ServiceConfig is the configuration for the clear service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service clears the active progress record, archiving it into history.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new clear service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Response is the result of a clear run.
type Response struct {
	// ClearedTask is the name of the task that was cleared, empty when no
	// task was active.
	ClearedTask string
}

// Run completes the currently active task, if any.
func (s *Service) Run(ctx context.Context) (*Response, error) {
	record, err := s.repo.GetProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get progress: %w", err)
	}

	if !record.Active {
		s.logger.Debugf("No active task to clear")
		return &Response{}, nil
	}

	if err := s.repo.CompleteTask(ctx, record.TaskName); err != nil {
		return nil, fmt.Errorf("could not complete task: %w", err)
	}

	s.logger.Infof("Cleared active task %q", record.TaskName)

	return &Response{ClearedTask: record.TaskName}, nil
}
