package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ocptv/internal/store"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	Database string
	Session  string
	Step     string
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a stored session as JSONL",
		Long: `Print the lines of a stored session in sequence order.

Without --session the most recent session is printed. --step restricts the
output to one step's artifacts. Every line is checked against its stored hash.

Example:
  ocptv dump --db ./ocptv.db
  ocptv dump --db ./ocptv.db --session 0190f5a4-... --step 1`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session id (default: latest)")
	cmd.Flags().StringVar(&opts.Step, "step", "", "only print artifacts of this step id")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runDump(opts *DumpOptions, cmd *cobra.Command) error {
	ctx := commandContext(cmd)

	st, err := openExistingStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	session := opts.Session
	if session == "" {
		sessions, err := st.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if len(sessions) == 0 {
			return NewExitError(ExitCommandError, "database holds no sessions")
		}
		session = sessions[len(sessions)-1].ID
	}

	var artifacts []store.StoredArtifact
	if opts.Step != "" {
		artifacts, err = st.ReadStep(ctx, session, opts.Step)
	} else {
		artifacts, err = st.ReadSession(ctx, session)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read session", err)
	}
	if len(artifacts) == 0 && opts.Step == "" {
		return NewExitError(ExitCommandError, fmt.Sprintf("session %q not found or empty", session))
	}

	w := cmd.OutOrStdout()
	for _, a := range artifacts {
		if _, err := fmt.Fprintf(w, "%s\n", a.Line); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
	}
	return nil
}

// openExistingStore opens a store that must already exist. store.Open would
// otherwise create an empty database at a mistyped path.
func openExistingStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, WrapExitError(ExitCommandError, "database not found", err)
	}
	return openStore(path, nil)
}
