package controller

import "github.com/kiln-dev/kiln/pkg/agent"

// Duplicate tool-call suppression. A call with the same signature as
// one already made this iteration or in the previous two is dropped
// before dispatch. Without this, models spin on a call they just made —
// re-reading the same file, or worse, re-attempting a denied command.
const duplicateSuppressionWindow = 2

type signatureWindow struct {
	lastSeen map[string]int
}

func newSignatureWindow() *signatureWindow {
	return &signatureWindow{lastSeen: make(map[string]int)}
}

// Filter drops duplicates for the given iteration and records the kept
// calls. Entries past the suppression window are evicted so a retry
// after intervening work goes through.
func (w *signatureWindow) Filter(calls []agent.ToolCall, iteration int) (kept []agent.ToolCall, dropped int) {
	for sig, last := range w.lastSeen {
		if iteration-last > duplicateSuppressionWindow+1 {
			delete(w.lastSeen, sig)
		}
	}
	for _, call := range calls {
		sig := call.Signature()
		if last, seen := w.lastSeen[sig]; seen && iteration-last <= duplicateSuppressionWindow {
			dropped++
			continue
		}
		w.lastSeen[sig] = iteration
		kept = append(kept, call)
	}
	return kept, dropped
}
