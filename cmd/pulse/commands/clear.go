package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/BlackOrchardLabs/PyPulse/internal/app/clear"
	"github.com/BlackOrchardLabs/PyPulse/internal/printer"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage/statefile"
)

type ClearCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand
}

// NewClearCommand returns the clear command.
func NewClearCommand(rootCmd *RootCommand, app *kingpin.Application) *ClearCommand {
	c := &ClearCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("clear", "Clear the active progress record, archiving it into history.")

	return c
}

func (c ClearCommand) Name() string { return c.Cmd.FullCommand() }

func (c ClearCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := statefile.NewRepository(statefile.RepositoryConfig{
		DataDir: c.rootCmd.DataDir,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}

	svc, err := clear.NewService(clear.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	resp, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("could not clear progress: %w", err)
	}

	p := printer.NewTablePrinter(c.rootCmd.Stdout)
	if resp.ClearedTask == "" {
		return p.PrintMessage("No task in progress.")
	}

	return p.PrintMessage(fmt.Sprintf("Cleared task %q.", resp.ClearedTask))
}
