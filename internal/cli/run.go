package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/ocptv/internal/model"
	"github.com/roach88/ocptv/internal/output"
	"github.com/roach88/ocptv/internal/scenario"
	"github.com/roach88/ocptv/internal/store"
	"github.com/roach88/ocptv/internal/tv"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Out      string
	Database string
	Label    string

	// Clock overrides the emitter clock (for testing). Nil means wall time.
	Clock output.Clock

	// Sessions overrides the store session id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Sessions store.SessionGenerator
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return newRunCommand(&RunOptions{RootOptions: rootOpts})
}

func newRunCommand(opts *RunOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Execute a scenario and emit its output",
		Long: `Execute a YAML scenario as an OCP TV run.

Output lines go to stdout, or to the file named by --out. With --db the same
lines are also recorded as a new session in a SQLite store.

The command exits 1 when the run ends with result FAIL.

Example:
  ocptv run ./scenarios/memcheck.yaml
  ocptv run --out run.jsonl --db ./ocptv.db ./scenarios/memcheck.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record output in this SQLite store")
	cmd.Flags().StringVar(&opts.Label, "label", "", "session label (defaults to the scenario name)")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	logger := opts.newLogger(cmd.ErrOrStderr())

	s, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	logger.Debug("scenario loaded", "name", s.Name, "steps", len(s.Steps))

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var writers output.MultiWriter
	if opts.Out != "" {
		fw, err := output.NewFileWriter(opts.Out)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open output", err)
		}
		defer func() {
			if closeErr := fw.Close(); closeErr != nil {
				logger.Error("error closing output", "path", opts.Out, "error", closeErr)
			}
		}()
		writers = append(writers, fw)
	} else {
		writers = append(writers, output.NewLineWriter(cmd.OutOrStdout()))
	}

	var session string
	if opts.Database != "" {
		st, err := openStore(opts.Database, opts.Sessions)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()

		label := opts.Label
		if label == "" {
			label = s.Name
		}
		session, err = st.NewSession(ctx, label)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to create session", err)
		}
		logger.Info("session created", "db", opts.Database, "session", session)
		writers = append(writers, st.Writer(ctx, session))
	}

	if opts.Verbose {
		writers = append(writers, output.NewLogWriter(logger, slog.LevelDebug))
	}

	runOpts := []tv.RunOption{tv.WithWriter(writers)}
	if opts.Clock != nil {
		runOpts = append(runOpts, tv.WithRunClock(opts.Clock))
	}
	run := s.NewRun(runOpts...)

	res, err := scenario.Execute(ctx, s, run)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return WrapExitError(ExitFailure, "run interrupted", err)
		}
		return WrapExitError(ExitFailure, "run failed", err)
	}

	logger.Info("run finished",
		"name", s.Name,
		"steps", len(res.Steps),
		"status", res.Status,
		"result", res.Result,
		"session", session,
	)
	if res.Result == model.ResultFail {
		return NewExitError(ExitFailure, "run result FAIL")
	}
	return nil
}

// commandContext returns cmd's context, or Background when the command was
// executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openStore opens an artifact store, mapping failures to ExitCommandError.
func openStore(path string, sessions store.SessionGenerator) (*store.Store, error) {
	var opts []store.Option
	if sessions != nil {
		opts = append(opts, store.WithSessionGenerator(sessions))
	}
	st, err := store.Open(path, opts...)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
