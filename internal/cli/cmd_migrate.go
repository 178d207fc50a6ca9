package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(deps commandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the queue schema if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withServices(cmd.Context(), deps, false, true, func(ctx context.Context, svcs *services) error {
				if err := svcs.migrate(ctx); err != nil {
					return err
				}
				if wantJSON(deps) {
					return printJSON(deps.out, map[string]any{"migrated": true})
				}
				_, err := fmt.Fprintln(deps.out, "schema up to date")
				return err
			})
		},
	}
}
