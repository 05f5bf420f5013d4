package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/uppmon/internal/ir"
	"github.com/roach88/uppmon/internal/store"
	"github.com/roach88/uppmon/internal/testutil"
)

func newBuild(format string, ids ...string) *BuildOptions {
	opts := &BuildOptions{RootOptions: &RootOptions{Format: format}}
	if len(ids) > 0 {
		opts.IDGenerator = store.NewFixedGenerator(ids...)
	}
	return opts
}

func TestBuild_WritesXMLToStdout(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"a_watch.hcl": watchHCL, "b_relay.hcl": relayHCL})

	out, err := execute(newBuildCommand(newBuild("text")), dir)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<?xml version=\"1.0\" encoding=\"utf-8\"?>\n"))
	assert.Contains(t, out, "<name>Watch</name>")
	assert.Contains(t, out, "<name>Relay</name>")
	assert.Contains(t, out, "<system>system Watch, Relay;</system>")
	assert.Contains(t, out, "<formula>E&lt;&gt; Watch.pass</formula>")
	assert.Contains(t, out, "<formula>A[] not Watch.err0_0</formula>")
}

func TestBuild_OutputFileAndHistory(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"monitors.cue": outputCUE, "relay.hcl": relayHCL})
	outFile := filepath.Join(t.TempDir(), "system.xml")
	dbPath := filepath.Join(t.TempDir(), "uppmon.db")

	out, err := execute(newBuildCommand(newBuild("text", "build-1")), dir, "-o", outFile, "--base", "1", "--db", dbPath)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Built 2 template(s)")
	assert.Contains(t, out, "Output: strict, ids [1, 6), 2 trap(s)")
	assert.Contains(t, out, "Relay: converter, ids [6, 8), 0 trap(s)")
	assert.Contains(t, out, "Recorded build build-1")

	xml, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(xml), `<location id="id1"`)
	assert.Contains(t, string(xml), "<system>system Output, Relay;</system>")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	b, err := st.ReadBuild(context.Background(), "build-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Seq)
	assert.Equal(t, 1, b.Base)
	assert.Equal(t, string(xml), b.XML)
	assert.Equal(t, ir.ToolVersion, b.ToolVersion)
	assert.Equal(t, ir.SchemaVersion, b.IRVersion)
	require.Len(t, b.Templates, 2)
	assert.Equal(t, store.BuildTemplate{
		Name:         "Relay",
		Kind:         ir.KindConverter,
		Base:         6,
		Size:         2,
		TemplateHash: b.Templates[1].TemplateHash,
		SpecJSON:     b.Templates[1].SpecJSON,
	}, b.Templates[1])
	assert.Len(t, b.Templates[0].TemplateHash, 64)
	assert.Contains(t, b.Templates[0].SpecJSON, `"kind":"strict"`)
}

func TestBuild_JSON(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"relay.hcl": relayHCL})

	out, err := execute(NewBuildCommand(&RootOptions{Format: "json"}), dir)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   BuildSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Templates, 1)
	assert.Equal(t, "[0, 2)", resp.Data.Templates[0].IDs)
	assert.Len(t, resp.Data.DocumentHash, 64)
	assert.Contains(t, resp.Data.XML, "<name>Relay</name>")
}

func TestBuild_IsDeterministic(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"a_watch.hcl": watchHCL, "b_relay.hcl": relayHCL})

	first, err := execute(NewBuildCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	second, err := execute(NewBuildCommand(&RootOptions{Format: "text"}), dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuild_ValidationFailure(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"bad.hcl": `
monitor "Output" {
  kind = "eventually"
}
`})

	out, err := execute(NewBuildCommand(&RootOptions{Format: "text"}), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "E102")
}

func TestBuild_MissingDirectory(t *testing.T) {
	out, err := execute(NewBuildCommand(&RootOptions{Format: "text"}), filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestBuild_UnwritableOutput(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"relay.hcl": relayHCL})
	outFile := filepath.Join(t.TempDir(), "missing-dir", "system.xml")

	out, err := execute(NewBuildCommand(&RootOptions{Format: "text"}), dir, "-o", outFile)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E007]")
}

func TestOutputBuildError(t *testing.T) {
	buf := &strings.Builder{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	err := outputBuildError(formatter, ir.Errorf(ir.ErrCodeIDCollision, "id 3 already used").WithTemplate("B").WithID(3))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "ID_COLLISION", resp.Error.Code)
}

func TestShortHash(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortHash("0123456789abcdef"))
	assert.Equal(t, "abc", shortHash("abc"))
}

func TestBuild_RepeatedBuildsShareDocumentHash(t *testing.T) {
	dir := writeSpecs(t, map[string]string{"monitors.hcl": "declaration = <<EOT\n" + testutil.Declaration(2) + "\nEOT\n" + relayHCL})
	dbPath := filepath.Join(t.TempDir(), "uppmon.db")

	opts := &BuildOptions{
		RootOptions: &RootOptions{Format: "json"},
		IDGenerator: testutil.NewSequenceGenerator("build"),
	}
	var hashes []string
	for i := 0; i < 3; i++ {
		out, err := execute(newBuildCommand(opts), dir, "--db", dbPath)
		require.NoError(t, err)

		var resp struct {
			BuildID string       `json:"build_id"`
			Data    BuildSummary `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, fmt.Sprintf("build-%d", i+1), resp.BuildID)
		hashes = append(hashes, resp.Data.DocumentHash)
	}
	assert.Equal(t, hashes[0], hashes[1])
	assert.Equal(t, hashes[1], hashes[2])

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	latest, err := st.LatestByHash(context.Background(), hashes[0])
	require.NoError(t, err)
	assert.Equal(t, "build-3", latest.ID)
	assert.Contains(t, latest.XML, "chan sig0, sig1;")
}
