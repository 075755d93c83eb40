package cmd

import (
	"context"
	"fmt"
	"strconv"

	"quina/domain/entities"

	"github.com/spf13/cobra"
)

func newSuggestCommand(rt *runtime) *cobra.Command {
	var (
		strategy    string
		numberCount int
		gameCount   int
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Generate number suggestions with a strategy",
		Long: fmt.Sprintf("Generate number suggestions.\n\nStrategies: %s",
			entities.ValidStrategyNames()),
		Args: noArgs,
		RunE: rt.withApp(func(ctx context.Context, app *App) error {
			result, err := app.Suggestions.Generate(ctx, strategy, numberCount, gameCount)
			if err != nil {
				return err
			}
			return writeJSON(rt.out(), result)
		}),
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", string(entities.StrategyBalanced), "selection strategy")
	cmd.Flags().IntVarP(&numberCount, "count", "n", entities.NumbersPerDraw, "numbers per set")
	cmd.Flags().IntVarP(&gameCount, "games", "g", 1, "number of sets")

	return cmd
}

func newCheckCommand(rt *runtime) *cobra.Command {
	var sequence int

	cmd := &cobra.Command{
		Use:   "check --draw N numbers...",
		Short: "Check a played ticket against a stored draw",
		RunE: func(cmd *cobra.Command, args []string) error {
			numbers, err := parseNumbers(args)
			if err != nil {
				return err
			}
			return rt.withApp(func(ctx context.Context, app *App) error {
				result, err := app.Tickets.Check(ctx, numbers, sequence)
				if err != nil {
					return err
				}
				return writeJSON(rt.out(), result)
			})(cmd, args)
		},
	}
	cmd.Flags().IntVarP(&sequence, "draw", "d", 0, "draw sequence number")

	return cmd
}

// parseNumbers converts ticket arguments to integers
func parseNumbers(args []string) ([]int, error) {
	numbers := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, entities.NewValidationError("invalid number %q", arg)
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}
