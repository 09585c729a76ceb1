package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/BlackOrchardLabs/PyPulse/internal/conventions"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/reaper"
	storageio "github.com/BlackOrchardLabs/PyPulse/internal/storage/io"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage/statefile"
)

type ReapCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	once     bool
	interval time.Duration
	maxIdle  time.Duration
}

// NewReapCommand returns the reap command.
func NewReapCommand(rootCmd *RootCommand, app *kingpin.Application) *ReapCommand {
	c := &ReapCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("reap", "Deactivate stale progress records, once or as a loop.")
	c.Cmd.Flag("once", "Run a single reap pass and exit.").BoolVar(&c.once)
	c.Cmd.Flag("interval", "Loop tick period (0 uses config file or default).").DurationVar(&c.interval)
	c.Cmd.Flag("max-idle", "Idle threshold before deactivation (0 uses config file or default).").DurationVar(&c.maxIdle)

	return c
}

func (c ReapCommand) Name() string { return c.Cmd.FullCommand() }

func (c ReapCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	// Settings precedence: defaults, then config.yaml, then explicit flags.
	settings, err := c.loadSettings(ctx)
	if err != nil {
		return err
	}

	interval := settings.ReapInterval
	if c.interval > 0 {
		interval = c.interval
	}
	maxIdle := settings.MaxIdle
	if c.maxIdle > 0 {
		maxIdle = c.maxIdle
	}

	repo, err := statefile.NewRepository(statefile.RepositoryConfig{
		DataDir: c.rootCmd.DataDir,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}

	r, err := reaper.NewReaper(reaper.Config{
		Repository: repo,
		Interval:   interval,
		MaxIdle:    maxIdle,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create reaper: %w", err)
	}

	if c.once {
		r.Tick(ctx)
		return nil
	}

	return r.Run(ctx)
}

func (c ReapCommand) loadSettings(ctx context.Context) (model.Settings, error) {
	defaults := model.Settings{
		ReapInterval: model.DefaultReapInterval,
		MaxIdle:      model.DefaultMaxIdle,
	}

	repo := storageio.NewSettingsYAMLRepository(os.DirFS(c.rootCmd.DataDir))
	settings, err := repo.GetSettings(ctx, conventions.SettingsFile)
	if err != nil {
		// A missing settings file is the normal case.
		if errors.Is(err, fs.ErrNotExist) {
			return defaults, nil
		}
		return model.Settings{}, fmt.Errorf("could not load settings: %w", err)
	}

	return settings, nil
}
