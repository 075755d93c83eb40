package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"quina/config"
	"quina/domain/entities"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitOK         = 0
	ExitFailure    = 1
	ExitValidation = 2
)

// runtime carries what every command needs
type runtime struct {
	factory  AppFactory
	loadCfg  func() *config.Config
	stdout   io.Writer
	logLevel string
	cfg      *config.Config
}

// Options configures the root command. Zero values use the real config and wiring.
type Options struct {
	Factory AppFactory
	Config  func() *config.Config
	Stdout  io.Writer
}

// NewRootCommand builds the quina command tree
func NewRootCommand(opts Options) *cobra.Command {
	rt := &runtime{
		factory: opts.Factory,
		loadCfg: opts.Config,
		stdout:  opts.Stdout,
	}
	if rt.factory == nil {
		rt.factory = Bootstrap
	}
	if rt.loadCfg == nil {
		rt.loadCfg = config.Get
	}

	root := &cobra.Command{
		Use:           "quina",
		Short:         "Quina draw statistics and number suggestions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			rt.cfg = rt.loadCfg()
			level := rt.cfg.LogLevel
			if rt.logLevel != "" {
				level = rt.logLevel
			}
			return ConfigureLogging(level, rt.cfg.IsProduction())
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return entities.NewValidationError("%s", err.Error())
	})
	root.PersistentFlags().StringVar(&rt.logLevel, "log-level", "", "log level (overrides LOG_LEVEL)")

	if rt.stdout != nil {
		root.SetOut(rt.stdout)
	}

	root.AddCommand(
		newServeCommand(rt),
		newSyncCommand(rt),
		newStatsCommand(rt),
		newSuggestCommand(rt),
		newCheckCommand(rt),
		newDrawsCommand(rt),
		newChartCommand(rt),
		newMigrateCommand(rt),
	)

	return root
}

// Execute runs the command line and returns the process exit code
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(Options{Stdout: stdout})
	root.SetErr(stderr)
	root.SetArgs(args)
	return exitCode(root.ExecuteContext(ctx), stdout, stderr)
}

// exitCode reports err as JSON and maps it to an exit code
func exitCode(err error, stdout, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}

	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		_ = writeJSON(stdout, errorResponse{Error: validationErr.Message})
		return ExitValidation
	}

	log.WithError(err).Debug("Command failed")
	_ = writeJSON(stderr, errorResponse{Error: err.Error()})
	return ExitFailure
}

type errorResponse struct {
	Error string `json:"error"`
}

// withApp builds the App for the duration of one command
func (rt *runtime) withApp(run func(ctx context.Context, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		app, err := rt.factory(ctx, rt.cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(ctx, app)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

func (rt *runtime) out() io.Writer {
	if rt.stdout != nil {
		return rt.stdout
	}
	return os.Stdout
}

// noArgs rejects positional arguments as a usage error
func noArgs(_ *cobra.Command, args []string) error {
	if len(args) > 0 {
		return entities.NewValidationError("unexpected arguments: %v", args)
	}
	return nil
}
