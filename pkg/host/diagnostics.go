package host

import (
	"context"
	"slices"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// DiagnosticsSource supplies analyzer findings for workspace files.
// An empty path means the whole workspace. LocalHost has none by
// default; an editor or language-server bridge registers one at
// startup, and without one both query methods report nothing.
type DiagnosticsSource interface {
	Diagnostics(path string) []agent.Diagnostic
}

const diagnosticsSettlePoll = 250 * time.Millisecond

// SetDiagnosticsSource installs or replaces the diagnostics source.
func (h *LocalHost) SetDiagnosticsSource(src DiagnosticsSource) {
	h.diagMu.Lock()
	h.diags = src
	h.diagMu.Unlock()
}

func (h *LocalHost) diagnosticsSource() DiagnosticsSource {
	h.diagMu.RLock()
	defer h.diagMu.RUnlock()
	return h.diags
}

// WaitForDiagnostics polls the source until two consecutive reads
// agree, treating that as the analyzer having settled, and returns the
// last read when the timeout elapses first. Without a source it
// returns immediately.
func (h *LocalHost) WaitForDiagnostics(ctx context.Context, path string, timeout time.Duration) ([]agent.Diagnostic, error) {
	src := h.diagnosticsSource()
	if src == nil {
		return nil, nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(diagnosticsSettlePoll)
	defer tick.Stop()

	last := src.Diagnostics(path)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return last, nil
		case <-tick.C:
			next := src.Diagnostics(path)
			if slices.Equal(next, last) {
				return next, nil
			}
			last = next
		}
	}
}

// ErrorDiagnostics returns the currently-known error-severity findings
// for path without waiting for the source to settle.
func (h *LocalHost) ErrorDiagnostics(path string) []agent.Diagnostic {
	src := h.diagnosticsSource()
	if src == nil {
		return nil
	}
	var out []agent.Diagnostic
	for _, d := range src.Diagnostics(path) {
		if d.Severity == agent.DiagnosticError {
			out = append(out, d)
		}
	}
	return out
}
