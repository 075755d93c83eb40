package cmd

import (
	"quina/database"

	"github.com/spf13/cobra"
)

type migrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

func newMigrateCommand(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  noArgs,
			RunE: func(*cobra.Command, []string) error {
				return database.MigrateUp(rt.cfg.GetDatabaseURL())
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1 step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				steps := "1"
				if len(args) > 0 {
					steps = args[0]
				}
				return database.MigrateDown(rt.cfg.GetDatabaseURL(), steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the current migration version",
			Args:  noArgs,
			RunE: func(*cobra.Command, []string) error {
				version, dirty, err := database.MigrateStatus(rt.cfg.GetDatabaseURL())
				if err != nil {
					return err
				}
				return writeJSON(rt.out(), migrationStatus{Version: version, Dirty: dirty})
			},
		},
	)

	return cmd
}
