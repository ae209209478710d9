package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]int{"lines": 16}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"lines": float64(16)}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	details := []map[string]any{{"line": 3, "code": "E203"}}
	require.NoError(t, formatter.Error("E203", "sequence out of order", details))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E203", resp.Error.Code)
	assert.Equal(t, "sequence out of order", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_Text(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		call    func(f *OutputFormatter) error
		want    []string
		notWant []string
	}{
		{
			name: "success",
			call: func(f *OutputFormatter) error { return f.Success("16 lines valid") },
			want: []string{"16 lines valid"},
		},
		{
			name:    "error quiet",
			call:    func(f *OutputFormatter) error { return f.Error("E201", "schema mismatch", "detail") },
			want:    []string{"Error [E201]: schema mismatch"},
			notWant: []string{"Details:"},
		},
		{
			name:    "error verbose",
			verbose: true,
			call:    func(f *OutputFormatter) error { return f.Error("E201", "schema mismatch", "detail") },
			want:    []string{"Error [E201]: schema mismatch", "Details: detail"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}
			require.NoError(t, tt.call(f))
			for _, s := range tt.want {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.notWant {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}

	f.VerboseLog("opened %s", "run.db")

	assert.Empty(t, out.String())
	assert.Equal(t, "opened run.db\n", errOut.String())

	f.Verbose = false
	f.VerboseLog("hidden")
	assert.Equal(t, "opened run.db\n", errOut.String())
}

func TestOutputFormatter_GetErrWriterFallback(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Writer: buf}
	assert.Same(t, buf, f.GetErrWriter())
}

func TestExitError(t *testing.T) {
	base := errors.New("no such file")

	plain := NewExitError(ExitFailure, "2 lines invalid")
	assert.Equal(t, "2 lines invalid", plain.Error())
	assert.Nil(t, plain.Unwrap())

	wrapped := WrapExitError(ExitCommandError, "open scenario", base)
	assert.Equal(t, "open scenario: no such file", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"failure", NewExitError(ExitFailure, "x"), ExitFailure},
		{"command error", NewExitError(ExitCommandError, "x"), ExitCommandError},
		{"wrapped", fmt.Errorf("outer: %w", NewExitError(ExitFailure, "x")), ExitFailure},
		{"plain error", errors.New("unknown flag"), ExitCommandError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}
