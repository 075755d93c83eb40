package cmd

import (
	"context"
	"fmt"

	"quina/domain/entities"

	"github.com/spf13/cobra"
)

type drawList struct {
	Total int              `json:"total"`
	Draws []*entities.Draw `json:"draws"`
}

func newDrawsCommand(rt *runtime) *cobra.Command {
	var (
		limit    int
		sequence int
	)

	cmd := &cobra.Command{
		Use:   "draws",
		Short: "List stored draws, most recent first",
		Args:  noArgs,
		RunE: rt.withApp(func(ctx context.Context, app *App) error {
			if sequence > 0 {
				draw, err := app.Draws.FetchBySequence(ctx, sequence)
				if err != nil {
					return fmt.Errorf("failed to get draw %d: %w", sequence, err)
				}
				if draw == nil {
					return fmt.Errorf("draw %d: %w", sequence, entities.ErrDrawNotFound)
				}
				return writeJSON(rt.out(), draw)
			}

			if limit < 0 {
				return entities.NewValidationError("limit must not be negative")
			}
			draws, err := app.Draws.FetchAll(ctx, limit)
			if err != nil {
				return fmt.Errorf("failed to fetch draws: %w", err)
			}
			total, err := app.Draws.Count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count draws: %w", err)
			}
			return writeJSON(rt.out(), drawList{Total: total, Draws: draws})
		}),
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "maximum draws to list, 0 for all")
	cmd.Flags().IntVar(&sequence, "sequence", 0, "show a single draw")

	return cmd
}
