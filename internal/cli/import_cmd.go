package cli

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Create a project from a JSON or YAML plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			result, err := app.Import.ImportPlan(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Imported project %s [%s]: %d phases, %d dependencies\n",
				result.Project.Name, result.Project.ShortID, result.PhaseCount, result.DependencyCount)
			if len(result.Violations) > 0 {
				fmt.Fprintln(out, formatter.StyleYellow.Render(
					fmt.Sprintf("%d phases violate constraints. Run 'cadence schedule plan --project %s' to review.",
						len(result.Violations), result.Project.ShortID)))
			}
			return nil
		},
	}
}
