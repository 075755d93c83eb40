package cmd

import (
	"context"
	"fmt"
	"os"

	"quina/infrastructure/charts"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newStatsCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print every statistic over the stored draw history",
		Args:  noArgs,
		RunE: rt.withApp(func(ctx context.Context, app *App) error {
			stats, err := app.Statistics.ComputeStatistics(ctx)
			if err != nil {
				return err
			}
			return writeJSON(rt.out(), stats)
		}),
	}
}

func newChartCommand(rt *runtime) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the number frequency heatmap as PNG",
		Args:  noArgs,
		RunE: rt.withApp(func(ctx context.Context, app *App) error {
			stats, err := app.Statistics.ComputeStatistics(ctx)
			if err != nil {
				return err
			}

			image, err := charts.FrequencyHeatmap(stats)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, image, 0o644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}

			log.WithFields(log.Fields{
				"path":       out,
				"totalDraws": stats.TotalDraws,
				"bytes":      len(image),
			}).Info("Frequency heatmap written")
			return writeJSON(rt.out(), map[string]any{"path": out, "total_draws": stats.TotalDraws})
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "quina-frequency.png", "output PNG file")

	return cmd
}
