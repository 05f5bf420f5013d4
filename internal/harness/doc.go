// Package harness runs YAML scenarios against the monitor synthesizer.
//
// A scenario declares a set of monitors, the base id of the shared id
// space, and assertions about the resulting document: location and edge
// counts, individual locations and edges, init references, derived
// queries, or the build error a malformed monitor must produce.
//
// Each scenario builds its document with a fresh monitor.Composer, so runs
// are isolated and reproducible. RunWithGolden additionally compares the
// written XML against testdata/golden/<name>.golden.
package harness
