package host

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiln-dev/kiln/pkg/agent"
)

type stubDiagnostics struct {
	mu   sync.Mutex
	list []agent.Diagnostic
}

func (s *stubDiagnostics) Diagnostics(path string) []agent.Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	if path == "" {
		return slices.Clone(s.list)
	}
	var out []agent.Diagnostic
	for _, d := range s.list {
		if d.Path == path {
			out = append(out, d)
		}
	}
	return out
}

func (s *stubDiagnostics) set(list []agent.Diagnostic) {
	s.mu.Lock()
	s.list = list
	s.mu.Unlock()
}

func TestWaitForDiagnostics(t *testing.T) {
	ctx := context.Background()

	t.Run("no source returns immediately", func(t *testing.T) {
		h := newTestHost(t)
		start := time.Now()
		diags, err := h.WaitForDiagnostics(ctx, "a.go", 2*time.Second)
		require.NoError(t, err)
		assert.Nil(t, diags)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("stable source settles before the timeout", func(t *testing.T) {
		h := newTestHost(t)
		src := &stubDiagnostics{}
		src.set([]agent.Diagnostic{
			{Path: "a.go", Line: 3, Severity: agent.DiagnosticError, Message: "undefined: x"},
			{Path: "b.go", Line: 1, Severity: agent.DiagnosticWarning, Message: "unused import"},
		})
		h.SetDiagnosticsSource(src)

		start := time.Now()
		diags, err := h.WaitForDiagnostics(ctx, "a.go", 5*time.Second)
		require.NoError(t, err)
		require.Len(t, diags, 1)
		assert.Equal(t, "undefined: x", diags[0].Message)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("timeout returns the last read", func(t *testing.T) {
		h := newTestHost(t)
		src := &stubDiagnostics{}
		src.set([]agent.Diagnostic{{Path: "a.go", Line: 0, Severity: agent.DiagnosticError, Message: "churn"}})
		h.SetDiagnosticsSource(src)

		// Keep the source churning so it never settles.
		stop := make(chan struct{})
		defer close(stop)
		go func() {
			line := 0
			for {
				select {
				case <-stop:
					return
				case <-time.After(50 * time.Millisecond):
					line++
					src.set([]agent.Diagnostic{{Path: "a.go", Line: line, Severity: agent.DiagnosticError, Message: "churn"}})
				}
			}
		}()

		diags, err := h.WaitForDiagnostics(ctx, "a.go", 600*time.Millisecond)
		require.NoError(t, err)
		require.Len(t, diags, 1)
		assert.Equal(t, "churn", diags[0].Message)
	})

	t.Run("cancellation propagates", func(t *testing.T) {
		h := newTestHost(t)
		h.SetDiagnosticsSource(&stubDiagnostics{})

		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := h.WaitForDiagnostics(canceled, "a.go", 5*time.Second)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestErrorDiagnostics(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		h := newTestHost(t)
		assert.Nil(t, h.ErrorDiagnostics("a.go"))
	})

	t.Run("filters to error severity", func(t *testing.T) {
		h := newTestHost(t)
		src := &stubDiagnostics{}
		src.set([]agent.Diagnostic{
			{Path: "a.go", Line: 3, Severity: agent.DiagnosticError, Message: "undefined: x"},
			{Path: "a.go", Line: 9, Severity: agent.DiagnosticWarning, Message: "shadowed var"},
			{Path: "b.go", Line: 2, Severity: agent.DiagnosticError, Message: "syntax error"},
		})
		h.SetDiagnosticsSource(src)

		errsA := h.ErrorDiagnostics("a.go")
		require.Len(t, errsA, 1)
		assert.Equal(t, "undefined: x", errsA[0].Message)

		all := h.ErrorDiagnostics("")
		assert.Len(t, all, 2)
	})
}
