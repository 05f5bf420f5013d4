package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"strict_two_signals", "relay_and_watch"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestRunWithGolden_BuildErrorHasNoDocument(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/unmatched_signal.yaml")
	require.NoError(t, err)
	require.Error(t, RunWithGolden(t, s))
}
