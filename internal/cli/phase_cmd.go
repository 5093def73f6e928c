package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newPhaseCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase",
		Short: "Manage project phases",
	}

	cmd.AddCommand(
		newPhaseAddCmd(app),
		newPhaseListCmd(app),
		newPhaseEditCmd(app),
		newPhaseMoveCmd(app),
		newPhaseRemoveCmd(app),
	)

	return cmd
}

func newPhaseAddCmd(app *App) *cobra.Command {
	var projectRef, name, start, end, notes string
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a phase to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}

			if name == "" || start == "" || end == "" {
				if !app.interactive() {
					return fmt.Errorf("--name, --start and --end are required")
				}
				if err := phaseForm(&name, &start, &end).Run(); err != nil {
					return err
				}
			}

			startDate, err := parseDateFlag("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseDateFlag("end", end)
			if err != nil {
				return err
			}

			p := &domain.Phase{
				ProjectID: project.ID,
				Name:      name,
				StartDate: startDate,
				EndDate:   endDate,
				Order:     order,
				Notes:     notes,
			}
			if err := app.Phases.Create(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added phase #%d %s (%s)\n",
				p.Order, p.Name, formatter.DateRange(p.StartDate, p.EndDate))
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)
	cmd.Flags().StringVar(&name, "name", "", "Phase name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&order, "order", 0, "Display order (default: next in project)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")

	return cmd
}

func newPhaseListCmd(app *App) *cobra.Command {
	var projectRef string
	var wide bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's phases with their constraint state",
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

			violations := report.Violations
			if violations == nil {
				violations = map[string][]string{}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPhaseList(project, report.Phases, violations, wide))
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)
	cmd.Flags().BoolVarP(&wide, "wide", "w", false, "Show IDs and notes")

	return cmd
}

// moveFlags are the date-change flags shared by "phase move".
type moveFlags struct {
	start string
	end   string
	shift int
}

func (f *moveFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.start, "start", "", "New start date (YYYY-MM-DD)")
	fs.StringVar(&f.end, "end", "", "New end date (YYYY-MM-DD)")
	fs.IntVar(&f.shift, "shift", 0, "Shift both dates by N days (negative moves earlier)")
}

// resolve computes the proposed dates for phase from whichever flags were set.
func (f *moveFlags) resolve(fs *pflag.FlagSet, phase *domain.Phase) (time.Time, time.Time, error) {
	if fs.Changed("shift") {
		if fs.Changed("start") || fs.Changed("end") {
			return time.Time{}, time.Time{}, fmt.Errorf("--shift cannot be combined with --start or --end")
		}
		return domain.AddDays(phase.StartDate, f.shift), domain.AddDays(phase.EndDate, f.shift), nil
	}
	if !fs.Changed("start") && !fs.Changed("end") {
		return time.Time{}, time.Time{}, fmt.Errorf("one of --start, --end or --shift is required")
	}

	start, end := phase.StartDate, phase.EndDate
	var err error
	if fs.Changed("start") {
		if start, err = parseDateFlag("start", f.start); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if fs.Changed("end") {
		if end, err = parseDateFlag("end", f.end); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return start, end, nil
}

func newPhaseMoveCmd(app *App) *cobra.Command {
	var projectRef string
	var flags moveFlags
	var autoCorrect, dryRun bool

	cmd := &cobra.Command{
		Use:   "move <phase>",
		Short: "Change a phase's dates, checking dependency constraints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			_, phase, err := resolvePhase(ctx, app, projectRef, args[0])
			if err != nil {
				return err
			}
			start, end, err := flags.resolve(cmd.Flags(), phase)
			if err != nil {
				return err
			}

			if dryRun {
				proposal, err := app.Phases.ProposeDates(ctx, phase.ID, start, end)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatter.FormatProposal(proposal.Phase, proposal.Start, proposal.End, proposal.Violations, proposal.Correction))
				return nil
			}

			result, err := app.Phases.Reschedule(ctx, phase.ID, start, end, autoCorrect)
			if err != nil {
				var conflict *service.ScheduleConflictError
				if errors.As(err, &conflict) {
					fmt.Fprint(out, formatter.FormatViolations(conflict.Violations))
					return fmt.Errorf("phase %q not moved: %d violations (use --auto-correct to snap to the earliest valid dates)",
						conflict.PhaseName, len(conflict.Violations))
				}
				return err
			}

			p := result.Phase
			msg := fmt.Sprintf("Moved %s to %s", p.Name, formatter.DateRange(p.StartDate, p.EndDate))
			if result.Corrected {
				msg += formatter.Dim(" (auto-corrected)")
			}
			fmt.Fprintln(out, msg)
			if len(result.Downstream) > 0 {
				fmt.Fprint(out, formatter.FormatViolations(result.Downstream))
				fmt.Fprintln(out, formatter.Dim("Run 'cadence schedule fix' to cascade the change to successors."))
			}
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)
	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&autoCorrect, "auto-correct", false, "Snap to the earliest dates that satisfy predecessors")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show conflicts and the suggested correction without saving")

	return cmd
}

func newPhaseEditCmd(app *App) *cobra.Command {
	var projectRef, name, notes string
	var order int

	cmd := &cobra.Command{
		Use:   "edit <phase>",
		Short: "Rename a phase or change its notes or order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, phase, err := resolvePhase(ctx, app, projectRef, args[0])
			if err != nil {
				return err
			}

			upd := service.PhaseUpdate{Name: name}
			if cmd.Flags().Changed("notes") {
				upd.Notes = &notes
			}
			if cmd.Flags().Changed("order") {
				upd.Order = &order
			}
			if upd.Name == "" && upd.Notes == nil && upd.Order == nil {
				return fmt.Errorf("nothing to change (use --name, --notes or --order)")
			}

			updated, err := app.Phases.Update(ctx, phase.ID, upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated phase #%d %s\n", updated.Order, updated.Name)
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&notes, "notes", "", "Replace notes (empty clears them)")
	cmd.Flags().IntVar(&order, "order", 0, "New display order")

	return cmd
}

func newPhaseRemoveCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "remove <phase>",
		Short: "Remove a phase and its dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, phase, err := resolvePhase(cmd.Context(), app, projectRef, args[0])
			if err != nil {
				return err
			}
			if err := app.Phases.Delete(cmd.Context(), phase.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed phase %s\n", phase.Name)
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)

	return cmd
}
