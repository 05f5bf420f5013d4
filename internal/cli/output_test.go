package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, buf *bytes.Buffer) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	return resp
}

func TestFormatterJSON(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: buf}

		require.NoError(t, f.Success(ValidationResult{Valid: true, Monitors: 2}))

		resp := decodeResponse(t, buf)
		assert.Equal(t, "ok", resp.Status)
		assert.Nil(t, resp.Error)
		assert.Equal(t, map[string]any{"valid": true, "monitors": float64(2)}, resp.Data)
	})

	t.Run("error with details", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: buf}

		details := map[string]string{"template": "Watch"}
		require.NoError(t, f.Error("UNMATCHED_SIGNAL", "observation 0 signal \"c?\" is not in the alphabet", details))

		resp := decodeResponse(t, buf)
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "UNMATCHED_SIGNAL", resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "not in the alphabet")
		assert.Equal(t, map[string]any{"template": "Watch"}, resp.Error.Details)
	})
}

func TestFormatterText(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{"quiet", false, "Error [E108]: signals[1].signal: sigC? is not in the alphabet\n"},
		{"verbose", true, "Error [E108]: signals[1].signal: sigC? is not in the alphabet\nDetails: Watch\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			f := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}
			require.NoError(t, f.Error("E108", "signals[1].signal: sigC? is not in the alphabet", "Watch"))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}
	require.NoError(t, f.Success("✓ All 3 monitor(s) valid"))
	assert.Equal(t, "✓ All 3 monitor(s) valid\n", buf.String())
}

func TestVerboseLogGoesToErrWriter(t *testing.T) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: true}

	f.VerboseLog("Synthesized %s (%s) ids %s", "Output", "strict", "[1, 6)")
	assert.Empty(t, out.String())
	assert.Equal(t, "Synthesized Output (strict) ids [1, 6)\n", diag.String())

	f.Verbose = false
	f.VerboseLog("dropped")
	assert.NotContains(t, diag.String(), "dropped")

	// without an ErrWriter diagnostics fall back to Writer
	f = &OutputFormatter{Format: "text", Writer: out, Verbose: true}
	f.VerboseLog("Found %d spec file(s)", 2)
	assert.Equal(t, "Found 2 spec file(s)\n", out.String())
}

func TestNewFormatterUsesCommandStreams(t *testing.T) {
	out, diag := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(diag)

	f := newFormatter(cmd, &RootOptions{Format: "json", Verbose: true})
	assert.Equal(t, "json", f.Format)
	assert.True(t, f.Verbose)

	f.VerboseLog("diag")
	require.NoError(t, f.Success("done"))
	assert.Equal(t, "diag\n", diag.String())
	assert.Contains(t, out.String(), `"status":"ok"`)
}

func TestCLIResponse_BuildIDOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(CLIResponse{Status: "ok"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "build_id")

	data, err = json.Marshal(CLIResponse{Status: "ok", BuildID: "build-1"})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"build_id":"build-1"`)
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "database not found: h.db")))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "build failed", assert.AnError)))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))

	wrapped := WrapExitError(ExitCommandError, "open build history", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Equal(t, "open build history: "+assert.AnError.Error(), wrapped.Error())
	assert.Equal(t, "database not found: h.db", NewExitError(ExitCommandError, "database not found: h.db").Error())
}
