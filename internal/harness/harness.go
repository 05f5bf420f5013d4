package harness

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/uppmon/internal/monitor"
)

// Harness synthesizes a scenario's monitors into one document and checks
// its assertions.
type Harness struct {
	composer *monitor.Composer
	logger   *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger routes per-monitor debug logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
//  1. Create a fresh composer starting at scenario.Base
//  2. Synthesize every monitor in order, stopping at the first build error
//  3. Evaluate assertions against the document (or the build error)
//
// The returned error is reserved for scenarios that cannot run at all;
// assertion failures are reported through Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	var composerOpts []monitor.ComposerOption
	if scenario.Declaration != "" {
		composerOpts = append(composerOpts, monitor.WithGlobalDeclaration(scenario.Declaration))
	}
	if scenario.System != "" {
		composerOpts = append(composerOpts, monitor.WithSystem(scenario.System))
	}
	composer, err := monitor.NewComposer(scenario.Base, composerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create composer: %w", err)
	}

	h := &Harness{
		composer: composer,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}

	result := NewResult()
	for _, spec := range scenario.Monitors {
		tmpl, r, err := h.composer.Add(spec)
		if err != nil {
			h.logger.Debug("monitor failed", "scenario", scenario.Name, "monitor", spec.Name, "error", err)
			result.BuildError = err
			break
		}
		h.logger.Debug("monitor synthesized",
			"scenario", scenario.Name,
			"monitor", tmpl.Name,
			"kind", spec.Kind,
			"ids", r.String(),
		)
	}
	if result.BuildError == nil {
		result.Document = h.composer.Document()
	}

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}
