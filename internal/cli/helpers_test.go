package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const outputCUE = `declaration: "clock gclk;\nchan sigA, sigB, raw;"

monitor: Output: {
	kind: "strict"
	signals: [
		{signal: "sigA?", guard: "gclk>=5", invariant: "gclk<=10"},
		{signal: "sigB?", guard: "gclk>=2", invariant: "gclk<=8"},
	]
}
`

const relayHCL = `
monitor "Relay" {
  kind = "converter"

  conversion {
    from = "raw"
    to   = "sigA"
  }
}
`

const watchHCL = `
declaration = "chan a, b;"

monitor "Watch" {
  kind = "all_patterns"

  signal {
    name = "a?"
  }

  alphabet {
    edge   = "first"
    signal = "a!"
  }
  alphabet {
    edge   = "second"
    signal = "b!"
  }
}
`

// writeSpecs writes files into a fresh temporary directory and returns it.
func writeSpecs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// execute runs cmd with args and returns stdout and the command error.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}
