package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/ocptv/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file.jsonl>",
		Short: "Validate OCP TV output",
		Long: `Validate every line of a JSONL output stream.

Each line is unified with the OCP TV 2.0 CUE schema, then the stream is
checked as a whole: schemaVersion first, increasing sequence numbers, steps
and measurement series started before use and ended at most once.

Use "-" to read from stdin. The command exits 1 when any problem is found.

Example:
  ocptv validate run.jsonl
  ocptv run scenario.yaml | ocptv validate -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

// validateReport is the JSON payload of the validate command.
type validateReport struct {
	File   string             `json:"file"`
	Lines  int                `json:"lines"`
	Valid  bool               `json:"valid"`
	Errors []schema.LineError `json:"errors"`
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	checker, err := schema.NewChecker()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}

	res, err := checker.ValidateStream(in)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	formatter := opts.formatter(cmd)
	formatter.VerboseLog("validated %d lines from %s", res.Lines, path)

	report := validateReport{File: path, Lines: res.Lines, Valid: res.OK(), Errors: res.Errors}
	if report.Errors == nil {
		report.Errors = []schema.LineError{}
	}

	if formatter.JSON() {
		if res.OK() {
			if err := formatter.Success(report); err != nil {
				return err
			}
		} else if err := formatter.Error(res.Errors[0].Code, problemCount(res), report); err != nil {
			return err
		}
	} else {
		writeValidateText(cmd.OutOrStdout(), res)
	}

	if !res.OK() {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(res.Errors)))
	}
	return nil
}

func writeValidateText(w io.Writer, res schema.StreamResult) {
	fail := color.New(color.FgRed)
	if res.OK() {
		color.New(color.FgGreen).Fprintf(w, "✓ %d lines valid\n", res.Lines)
		return
	}
	for i := range res.Errors {
		fail.Fprintf(w, "✗ %s\n", res.Errors[i].Error())
	}
	fail.Fprintln(w, problemCount(res))
}

func problemCount(res schema.StreamResult) string {
	return fmt.Sprintf("%d problem(s) in %d lines", len(res.Errors), res.Lines)
}
