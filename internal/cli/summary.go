package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary <file.jsonl>",
		Short: "Summarize OCP TV output per step",
		Long: `Print a table of the steps in an output stream with their status and
the number of measurements, series, diagnoses, errors, logs and files each
produced. Use "-" to read from stdin.

Example:
  ocptv summary run.jsonl
  ocptv summary --format json run.jsonl`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, args[0], cmd)
		},
	}

	return cmd
}

func runSummary(opts *SummaryOptions, path string, cmd *cobra.Command) error {
	in, err := openInput(cmd, path)
	if err != nil {
		return err
	}
	defer in.Close()

	sum, err := Summarize(in)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid output", err)
	}

	formatter := opts.formatter(cmd)
	if formatter.JSON() {
		return formatter.Success(sum)
	}
	renderSummary(cmd.OutOrStdout(), sum)
	return nil
}

func renderSummary(w io.Writer, sum *RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Run %s %s (DUT %s)", sum.Name, sum.Version, sum.DutID))

	t.AppendHeader(table.Row{"Step", "Name", "Status", "Meas", "Series", "Elements", "Diag ✓", "Diag ✗", "Diag ?", "Errors", "Logs", "Files"})
	columns := make([]table.ColumnConfig, 0, 9)
	for n := 4; n <= 12; n++ {
		columns = append(columns, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	t.SetColumnConfigs(columns)

	var total StepSummary
	for _, s := range sum.Steps {
		t.AppendRow(table.Row{
			s.ID, s.Name, colorStatus(s.Status),
			s.Measurements, s.Series, s.Elements,
			s.DiagnosesPass, s.DiagnosesFail, s.DiagnosesOther,
			s.Errors, s.Logs, s.Files,
		})
		total.Measurements += s.Measurements
		total.Series += s.Series
		total.Elements += s.Elements
		total.DiagnosesPass += s.DiagnosesPass
		total.DiagnosesFail += s.DiagnosesFail
		total.DiagnosesOther += s.DiagnosesOther
		total.Errors += s.Errors
		total.Logs += s.Logs
		total.Files += s.Files
	}

	if sum.RunLogs > 0 || sum.RunErrors > 0 {
		t.AppendSeparator()
		t.AppendRow(table.Row{"run", "", "", "", "", "", "", "", "", sum.RunErrors, sum.RunLogs, ""})
		total.Errors += sum.RunErrors
		total.Logs += sum.RunLogs
	}

	t.AppendFooter(table.Row{
		"", "TOTAL", colorResult(sum.Status, sum.Result),
		total.Measurements, total.Series, total.Elements,
		total.DiagnosesPass, total.DiagnosesFail, total.DiagnosesOther,
		total.Errors, total.Logs, total.Files,
	})
	t.Render()
}

func colorStatus(status string) string {
	switch status {
	case "":
		return color.New(color.FgYellow).Sprint("OPEN")
	case "COMPLETE":
		return color.New(color.FgGreen).Sprint(status)
	case "ERROR":
		return color.New(color.FgRed).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}

func colorResult(status, result string) string {
	if status == "" {
		return color.New(color.FgYellow).Sprint("OPEN")
	}
	label := status + "/" + result
	switch result {
	case "PASS":
		return color.New(color.FgGreen).Sprint(label)
	case "FAIL":
		return color.New(color.FgRed).Sprint(label)
	default:
		return color.New(color.FgYellow).Sprint(label)
	}
}
