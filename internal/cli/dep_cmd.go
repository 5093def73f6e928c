package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"dependency"},
		Short:   "Manage dependencies between phases",
	}

	cmd.AddCommand(
		newDepAddCmd(app),
		newDepListCmd(app),
		newDepRemoveCmd(app),
	)

	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	var projectRef, from, to, typ string
	var lag int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Make one phase depend on another",
		Long: `Make --to depend on --from.

Types: FS (finish-to-start, default), SS (start-to-start),
FF (finish-to-finish), SF (start-to-finish). --lag is in days;
negative values allow overlap. FS edges always keep at least one day gap.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			project, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			depType, err := domain.ParseDependencyType(typ)
			if err != nil {
				return err
			}
			pred, err := app.Phases.Resolve(ctx, project.ID, from)
			if err != nil {
				return err
			}
			succ, err := app.Phases.Resolve(ctx, project.ID, to)
			if err != nil {
				return err
			}

			dep := &domain.Dependency{
				PredecessorPhaseID: pred.ID,
				SuccessorPhaseID:   succ.ID,
				Type:               depType,
				LagDays:            lag,
			}
			violations, err := app.Dependencies.Add(ctx, dep)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Added %s %s %s (%s)\n",
				pred.Name, formatter.Dim("→"), succ.Name, formatter.DependencyBadge(dep.Type, dep.LagDays))
			if len(violations) > 0 {
				fmt.Fprint(out, formatter.FormatViolations(violations))
				fmt.Fprintln(out, formatter.Dim("Run 'cadence schedule fix' to shift the affected phases."))
			}
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)
	cmd.Flags().StringVar(&from, "from", "", "Predecessor phase (name or ID)")
	cmd.Flags().StringVar(&to, "to", "", "Successor phase (name or ID)")
	cmd.Flags().StringVar(&typ, "type", "FS", "Dependency type: FS, SS, FF, SF")
	cmd.Flags().IntVar(&lag, "lag", 0, "Lag in days (negative for lead)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func newDepListCmd(app *App) *cobra.Command {
	var projectRef, phaseRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's dependencies, or one phase's with --phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			phases, err := app.Phases.List(ctx, project.ID)
			if err != nil {
				return err
			}

			if phaseRef != "" {
				phase, err := app.Phases.Resolve(ctx, project.ID, phaseRef)
				if err != nil {
					return err
				}
				edges, err := app.Dependencies.ListForPhase(ctx, phase.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(),
					formatter.FormatPhaseDependencies(edges.Phase, edges.Predecessors, edges.Successors, phases))
				return nil
			}

			deps, err := app.Dependencies.List(ctx, project.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatDependencyList(deps, phases))
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)
	cmd.Flags().StringVar(&phaseRef, "phase", "", "Only show edges into and out of this phase")

	return cmd
}

func newDepRemoveCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "remove <dependency-id>",
		Short: "Remove a dependency by ID or ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			project, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			deps, err := app.Dependencies.List(ctx, project.ID)
			if err != nil {
				return err
			}

			var matches []string
			for _, d := range deps {
				if d.ID == args[0] {
					matches = []string{d.ID}
					break
				}
				if strings.HasPrefix(d.ID, args[0]) {
					matches = append(matches, d.ID)
				}
			}
			switch len(matches) {
			case 0:
				return fmt.Errorf("dependency not found: %q", args[0])
			case 1:
			default:
				return fmt.Errorf("dependency ID prefix %q is ambiguous (%d matches)", args[0], len(matches))
			}

			if err := app.Dependencies.Remove(ctx, matches[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s\n", formatter.TruncID(matches[0]))
			return nil
		},
	}

	addProjectFlag(cmd, &projectRef)

	return cmd
}
