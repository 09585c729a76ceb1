// Package status implements the application service that retrieves the
// current progress record.
package status

import (
	"context"
	"fmt"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
)

// ServiceConfig is the configuration for the status service.
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

// Service retrieves the current progress state.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Run returns the current progress record. A missing or corrupt document
// yields the inactive template, never an error.
func (s *Service) Run(ctx context.Context) (model.ProgressRecord, error) {
	s.logger.Debugf("Getting current progress")

	record, err := s.repo.GetProgress(ctx)
	if err != nil {
		return model.ProgressRecord{}, fmt.Errorf("could not get progress: %w", err)
	}

	return record, nil
}
