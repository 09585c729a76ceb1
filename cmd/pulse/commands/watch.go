package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/BlackOrchardLabs/PyPulse/internal/app/status"
	"github.com/BlackOrchardLabs/PyPulse/internal/printer"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage/statefile"
)

type WatchCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	interval time.Duration
}

// NewWatchCommand returns the watch command.
func NewWatchCommand(rootCmd *RootCommand, app *kingpin.Application) *WatchCommand {
	c := &WatchCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("watch", "Poll and render the current progress until interrupted.")
	c.Cmd.Flag("interval", "Poll interval.").Default("1s").DurationVar(&c.interval)

	return c
}

func (c WatchCommand) Name() string { return c.Cmd.FullCommand() }

func (c WatchCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := statefile.NewRepository(statefile.RepositoryConfig{
		DataDir: c.rootCmd.DataDir,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}

	svc, err := status.NewService(status.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)

	// The observer side of the contract: an independent poll cadence with
	// no synchronization beyond document atomicity.
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		record, err := svc.Run(ctx)
		if err != nil {
			return fmt.Errorf("could not get progress: %w", err)
		}

		if err := p.PrintProgress(record); err != nil {
			return fmt.Errorf("could not print progress: %w", err)
		}
		fmt.Fprintln(c.rootCmd.Stdout)

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
