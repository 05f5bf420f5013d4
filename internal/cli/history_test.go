package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordBuilds builds the same specs once per id into a fresh database.
func recordBuilds(t *testing.T, ids ...string) (dbPath, xmlPath string) {
	t.Helper()
	dir := writeSpecs(t, map[string]string{"a_watch.hcl": watchHCL, "b_relay.hcl": relayHCL})
	tmp := t.TempDir()
	dbPath = filepath.Join(tmp, "uppmon.db")
	xmlPath = filepath.Join(tmp, "system.xml")

	opts := newBuild("text", ids...)
	for range ids {
		_, err := execute(newBuildCommand(opts), dir, "-o", xmlPath, "--db", dbPath)
		require.NoError(t, err)
	}
	return dbPath, xmlPath
}

func TestHistory_ListsBuildsInOrder(t *testing.T) {
	dbPath, _ := recordBuilds(t, "build-b", "build-a")

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SEQ"))
	assert.True(t, strings.HasPrefix(lines[1], "1"), "seq order, not id order")
	assert.Contains(t, lines[1], "build-b")
	assert.Contains(t, lines[2], "build-a")
}

func TestHistory_JSONAndHash(t *testing.T) {
	dbPath, _ := recordBuilds(t, "build-1", "build-2")

	out, err := execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   HistoryResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Builds, 2)
	assert.Empty(t, resp.Data.Builds[0].XML, "listing omits the document")
	assert.Len(t, resp.Data.Builds[0].Templates, 2)

	hash := resp.Data.Builds[0].DocumentHash
	assert.Equal(t, hash, resp.Data.Builds[1].DocumentHash, "same specs, same document")

	out, err = execute(NewHistoryCommand(&RootOptions{Format: "json"}), "--db", dbPath, "--hash", hash)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Builds, 1)
	assert.Equal(t, "build-2", resp.Data.Builds[0].ID, "latest build wins")
	assert.Empty(t, resp.Data.Builds[0].XML)

	out, err = execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", dbPath, "--hash", "unknown")
	require.NoError(t, err)
	assert.Contains(t, out, "No builds found.")
}

func TestHistory_DatabaseNotFound(t *testing.T) {
	_, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}), "--db", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "database not found")
}

func TestHistory_RequiresDB(t *testing.T) {
	_, err := execute(NewHistoryCommand(&RootOptions{Format: "text"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db")
}

func TestShow_Text(t *testing.T) {
	dbPath, _ := recordBuilds(t, "build-1")

	out, err := execute(NewShowCommand(&RootOptions{Format: "text"}), "build-1", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Build build-1 (seq 1)")
	assert.Contains(t, out, "Base:     0")
	assert.Contains(t, out, "Watch: all_patterns, ids [0, 3)")
	assert.Contains(t, out, "Relay: converter, ids [3, 5)")
}

func TestShow_XMLMatchesBuildOutput(t *testing.T) {
	dbPath, xmlPath := recordBuilds(t, "build-1")

	out, err := execute(NewShowCommand(&RootOptions{Format: "text"}), "build-1", "--db", dbPath, "--xml")
	require.NoError(t, err)

	want, err := os.ReadFile(xmlPath)
	require.NoError(t, err)
	assert.Equal(t, string(want), out)
}

func TestShow_JSON(t *testing.T) {
	dbPath, _ := recordBuilds(t, "build-1")

	out, err := execute(NewShowCommand(&RootOptions{Format: "json"}), "build-1", "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "build-1", resp.BuildID)
}

func TestShow_NotFound(t *testing.T) {
	dbPath, _ := recordBuilds(t, "build-1")

	_, err := execute(NewShowCommand(&RootOptions{Format: "text"}), "build-9", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "build not found: build-9")
}
