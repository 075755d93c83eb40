package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

func newSyncCommand(rt *runtime) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy draws from the Caixa API into the database",
		Args:  noArgs,
		RunE: rt.withApp(func(ctx context.Context, app *App) error {
			report, err := app.Sync.Sync(ctx, !all)
			if report != nil {
				if writeErr := writeJSON(rt.out(), report); writeErr != nil && err == nil {
					err = writeErr
				}
			}
			return err
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, "resync every draw instead of only new ones")

	return cmd
}
