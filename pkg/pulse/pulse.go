package pulse

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/BlackOrchardLabs/PyPulse/internal/conventions"
	"github.com/BlackOrchardLabs/PyPulse/internal/log"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/reaper"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage/statefile"
)

// Config configures the SDK client.
//
// All fields are optional. An empty Config{} uses the platform data
// directory (~/.pypulse) and a silent logger, and runs the staleness reaper
// in the background until [Client.Close].
type Config struct {
	// DataDir is the directory holding the shared state documents.
	// Default: %APPDATA%\pypulse on Windows, ~/.pypulse elsewhere.
	DataDir string

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger

	// DisableReaper turns off the background staleness reaper. Use it when
	// another process (e.g. `pulse reap`) already owns reaping.
	DisableReaper bool

	// ReapInterval is the reaper tick period. Default: 60s.
	ReapInterval time.Duration

	// MaxIdle is how long an active record may go without updates before
	// the reaper deactivates it. Default: 300s.
	MaxIdle time.Duration
}

func (c *Config) defaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get user home dir: %w", err)
		}
		c.DataDir = conventions.DataDir(home)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the producer-facing entry point. It owns the shared state store
// and the background staleness reaper.
//
// Create a Client with [New] and release it with [Client.Close]. A Client is
// safe for concurrent use.
type Client struct {
	repo       storage.Repository
	logger     log.Logger
	stopReaper func()
}

// New creates a new SDK client, initializing the state documents if needed
// and starting the owned staleness reaper unless disabled.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	repo, err := statefile.NewRepository(statefile.RepositoryConfig{
		DataDir: cfg.DataDir,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create state repository: %w", err)
	}

	client := &Client{
		repo:   repo,
		logger: cfg.Logger,
	}

	if !cfg.DisableReaper {
		r, err := reaper.NewReaper(reaper.Config{
			Repository: repo,
			Interval:   cfg.ReapInterval,
			MaxIdle:    cfg.MaxIdle,
			Logger:     cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create reaper: %w", err)
		}

		// The reaper belongs to the client lifecycle, not to the caller's
		// request context: it runs until Close.
		reapCtx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = r.Run(reapCtx)
		}()
		client.stopReaper = func() {
			cancel()
			<-done
		}
	}

	return client, nil
}

// Close stops the background reaper and waits for it to finish. It is safe
// to call multiple times.
func (c *Client) Close() error {
	if c.stopReaper != nil {
		c.stopReaper()
		c.stopReaper = nil
	}

	return nil
}

// Progress returns the current progress record.
func (c *Client) Progress(ctx context.Context) (model.ProgressRecord, error) {
	return c.repo.GetProgress(ctx)
}

// History returns the completed tasks, most recent first.
func (c *Client) History(ctx context.Context) (model.History, error) {
	return c.repo.GetHistory(ctx)
}
