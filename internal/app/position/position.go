// Package position implements the application service for the widget
// position document.
package position

import (
	"context"
	"fmt"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
)

// ServiceConfig is the configuration for the position service.
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

// Service reads and saves the widget position.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new position service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Get returns the saved widget position.
func (s *Service) Get(ctx context.Context) (model.WidgetPosition, error) {
	pos, err := s.repo.GetWidgetPosition(ctx)
	if err != nil {
		return model.WidgetPosition{}, fmt.Errorf("could not get widget position: %w", err)
	}

	return pos, nil
}

// Save overwrites the widget position.
func (s *Service) Save(ctx context.Context, pos model.WidgetPosition) error {
	if err := s.repo.SaveWidgetPosition(ctx, pos); err != nil {
		return fmt.Errorf("could not save widget position: %w", err)
	}

	s.logger.Debugf("Saved widget position (%d, %d)", pos.X, pos.Y)

	return nil
}
