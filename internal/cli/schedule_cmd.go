package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/spf13/cobra"
)

// errFixDeclined is returned when the user answers "No" to the fix prompt.
var errFixDeclined = errors.New("schedule fix cancelled")

func newScheduleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Check and correct a project's schedule",
	}

	cmd.AddCommand(
		newScheduleCheckCmd(app),
		newSchedulePlanCmd(app),
		newScheduleFixCmd(app),
	)

	return cmd
}

func newScheduleCheckCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report phases whose dates break a dependency",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			report, err := app.Schedule.Check(ctx, project.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScheduleCheck(report.Phases, report.Violations))
			if !report.Valid() {
				return fmt.Errorf("%d phases violate constraints", len(report.Violations))
			}
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)

	return cmd
}

func newSchedulePlanCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Preview the corrections 'schedule fix' would apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			plan, err := app.Schedule.Plan(ctx, project.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCorrectionPlan(plan.Phases, plan.Changes, false))
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)

	return cmd
}

func newScheduleFixCmd(app *App) *cobra.Command {
	var projectRef string
	var yes bool

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Shift violating phases and their successors to valid dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			project, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}

			// nil means apply whatever the fix computes.
			var confirmed []scheduler.PhaseChange
			if !yes && app.interactive() {
				plan, err := app.Schedule.Plan(ctx, project.ID)
				if err != nil {
					return err
				}
				if len(plan.Changes) == 0 {
					fmt.Fprintln(out, formatter.FormatCorrectionPlan(plan.Phases, nil, false))
					return nil
				}
				fmt.Fprintln(out, formatter.FormatCorrectionPlan(plan.Phases, plan.Changes, false))
				ok, err := app.confirm(fmt.Sprintf("Apply %d corrections to %s?", len(plan.Changes), project.DisplayID()))
				if err != nil {
					return err
				}
				if !ok {
					return errFixDeclined
				}
				confirmed = plan.Changes
			}

			result, err := app.Schedule.Fix(ctx, project.ID, confirmed)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatCorrectionPlan(result.Phases, result.Changes, result.Applied))
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Apply without asking for confirmation")

	return cmd
}
