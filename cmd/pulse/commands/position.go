package commands

import (
	"context"
	"fmt"

	"github.com/alecthomas/kingpin/v2"

	"github.com/BlackOrchardLabs/PyPulse/internal/app/position"
	"github.com/BlackOrchardLabs/PyPulse/internal/model"
	"github.com/BlackOrchardLabs/PyPulse/internal/printer"
	"github.com/BlackOrchardLabs/PyPulse/internal/storage/statefile"
)

type PositionCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	format string
	set    string
}

// NewPositionCommand returns the position command.
func NewPositionCommand(rootCmd *RootCommand, app *kingpin.Application) *PositionCommand {
	c := &PositionCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("position", "Show or save the widget window position.")
	c.Cmd.Flag("format", "Output format (table, json).").Default("table").EnumVar(&c.format, "table", "json")
	c.Cmd.Flag("set", "Save the position as X,Y instead of showing it.").PlaceHolder("X,Y").StringVar(&c.set)

	return c
}

func (c PositionCommand) Name() string { return c.Cmd.FullCommand() }

func (c PositionCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	repo, err := statefile.NewRepository(statefile.RepositoryConfig{
		DataDir: c.rootCmd.DataDir,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("could not create repository: %w", err)
	}

	svc, err := position.NewService(position.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("could not create service: %w", err)
	}

	if c.set != "" {
		var pos model.WidgetPosition
		if _, err := fmt.Sscanf(c.set, "%d,%d", &pos.X, &pos.Y); err != nil {
			return fmt.Errorf("invalid position %q, expected X,Y: %w", c.set, err)
		}

		if err := svc.Save(ctx, pos); err != nil {
			return fmt.Errorf("could not save widget position: %w", err)
		}
	}

	pos, err := svc.Get(ctx)
	if err != nil {
		return fmt.Errorf("could not get widget position: %w", err)
	}

	var p printer.Printer
	switch c.format {
	case "json":
		p = printer.NewJSONPrinter(c.rootCmd.Stdout)
	default: // table
		p = printer.NewTablePrinter(c.rootCmd.Stdout)
	}

	if err := p.PrintWidgetPosition(pos); err != nil {
		return fmt.Errorf("could not print widget position: %w", err)
	}

	return nil
}
