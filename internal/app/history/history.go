// Package history implements the application service that retrieves the
// completed-task history.
package history

import (
	"context"
	"fmt"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
)

// ServiceConfig is the configuration for the history service.
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

// Service retrieves the completed tasks history.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new history service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Run returns the completed tasks, most recent first.
func (s *Service) Run(ctx context.Context) (model.History, error) {
	s.logger.Debugf("Getting task history")

	history, err := s.repo.GetHistory(ctx)
	if err != nil {
		return model.History{}, fmt.Errorf("could not get history: %w", err)
	}

	return history, nil
}
