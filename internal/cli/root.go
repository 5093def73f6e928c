package cli

import (
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects     service.ProjectService
	Phases       service.PhaseService
	Dependencies service.DependencyService
	Schedule     service.ScheduleService
	Import       service.ImportService

	// IsInteractive reports whether prompts may be shown. Nil means never.
	IsInteractive func() bool
	// Confirm asks a yes/no question. Nil falls back to a huh form.
	Confirm func(title string) (bool, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) confirm(title string) (bool, error) {
	if a.Confirm != nil {
		return a.Confirm(title)
	}
	var ok bool
	if err := confirmForm(title, &ok).Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// NewRootCmd creates the top-level "cadence" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Phase scheduler with dependency-aware date validation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProjectCmd(app),
		newPhaseCmd(app),
		newDepCmd(app),
		newScheduleCmd(app),
		newImportCmd(app),
	)

	return root
}
