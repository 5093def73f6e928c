package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

// resolveProject resolves a --project flag value. The value can be a
// ShortID, full UUID, or UUID prefix.
func resolveProject(ctx context.Context, app *App, input string) (*domain.Project, error) {
	if input == "" {
		return nil, fmt.Errorf("project is required (use --project flag)")
	}
	return app.Projects.Resolve(ctx, input)
}

// resolvePhase resolves a phase name, UUID or UUID prefix within the
// project named by projectRef.
func resolvePhase(ctx context.Context, app *App, projectRef, input string) (*domain.Project, *domain.Phase, error) {
	project, err := resolveProject(ctx, app, projectRef)
	if err != nil {
		return nil, nil, err
	}
	phase, err := app.Phases.Resolve(ctx, project.ID, input)
	if err != nil {
		return nil, nil, err
	}
	return project, phase, nil
}

// parseDateFlag parses a YYYY-MM-DD flag value.
func parseDateFlag(flag, value string) (time.Time, error) {
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", flag, err)
	}
	return t, nil
}

func addProjectFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "project", "p", "", "Project short ID or UUID (prefix)")
	_ = cmd.MarkFlagRequired("project")
}
