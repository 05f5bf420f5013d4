package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBuild creates a build with one template.
func createTestBuild(id, hash string) Build {
	return Build{
		ID:           id,
		DocumentHash: hash,
		SpecDir:      "specs",
		Base:         1,
		XML:          "<nta/>",
		ToolVersion:  "0.1.0",
		IRVersion:    "1",
		Templates: []BuildTemplate{
			{Name: "Output", Kind: "strict", Base: 1, Size: 5, TemplateHash: "t-" + hash, SpecJSON: `{"kind":"strict","name":"Output"}`},
		},
	}
}
