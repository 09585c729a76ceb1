// Package reaper implements the background loop that deactivates progress
// records abandoned by a crashed or hung producer.
package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
)

// Config is the configuration for the staleness reaper.
type Config struct {
	Repository storage.Repository
	// Interval is the tick period, defaults to model.DefaultReapInterval.
	Interval time.Duration
	// MaxIdle is the idle threshold after which an active record is
	// deactivated, defaults to model.DefaultMaxIdle.
	MaxIdle time.Duration
	Logger  log.Logger
}

func (c *Config) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Interval <= 0 {
		c.Interval = model.DefaultReapInterval
	}

	if c.MaxIdle <= 0 {
		c.MaxIdle = model.DefaultMaxIdle
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "reaper.Reaper"})

	return nil
}

// Reaper periodically deactivates stale progress records. It runs as a
// single goroutine, so ticks never overlap.
type Reaper struct {
	repo     storage.Repository
	interval time.Duration
	maxIdle  time.Duration
	logger   log.Logger
}

// NewReaper creates a new staleness reaper.
func NewReaper(cfg Config) (*Reaper, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Reaper{
		repo:     cfg.Repository,
		interval: cfg.Interval,
		maxIdle:  cfg.MaxIdle,
		logger:   cfg.Logger,
	}, nil
}

// Run ticks until the context is canceled. Tick failures are logged and
// never terminate the loop.
func (r *Reaper) Run(ctx context.Context) error {
	r.logger.Infof("Staleness reaper started (interval %s, max idle %s)", r.interval, r.maxIdle)
	defer r.logger.Infof("Staleness reaper stopped")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick runs a single reap pass.
func (r *Reaper) Tick(ctx context.Context) {
	reaped, err := r.repo.ReapStale(ctx, r.maxIdle)
	if err != nil {
		r.logger.Errorf("Could not reap stale progress: %s", err)
		return
	}

	if reaped {
		r.logger.Infof("Deactivated progress record idle for over %s", r.maxIdle)
	}
}
