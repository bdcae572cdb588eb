package dispatch

import (
	"context"
	"sync"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// RequiresApproval is the terminal-command decision policy: a critical
// command always asks, and every command asks when the session is not
// auto-approving.
func RequiresApproval(severity agent.Severity, autoApprove bool) bool {
	return severity == agent.SeverityCritical || !autoApprove
}

// Outcome is the user's ruling on one approval request.
type Outcome struct {
	Approved bool

	// RevisedCommand is set when the user edited the command before
	// approving it.
	RevisedCommand string
}

// ApprovalGate suspends dispatch until the user rules on a dangerous
// action. One gate serves one agent turn; the HTTP layer routes user
// responses to it through the GateRegistry.
type ApprovalGate struct {
	mu      sync.Mutex
	pending map[string]chan Outcome
}

func NewApprovalGate() *ApprovalGate {
	return &ApprovalGate{pending: make(map[string]chan Outcome)}
}

// RequestApproval registers the approval, invokes publish to surface it
// to the user, and suspends until HandleResponse or CancelAll resolves
// it or ctx fires. The pending slot exists before publish runs, so a
// response can never arrive ahead of its waiter. Cancellation of any
// kind resolves as denial.
func (g *ApprovalGate) RequestApproval(ctx context.Context, approvalID string, publish func()) Outcome {
	ch := make(chan Outcome, 1)
	g.mu.Lock()
	g.pending[approvalID] = ch
	g.mu.Unlock()

	if publish != nil {
		publish()
	}

	select {
	case out := <-ch:
		return out
	case <-ctx.Done():
		g.mu.Lock()
		delete(g.pending, approvalID)
		g.mu.Unlock()
		return Outcome{}
	}
}

// HandleResponse resolves a pending approval. Returns false when the ID
// is unknown — already resolved, cancelled, or never requested.
func (g *ApprovalGate) HandleResponse(approvalID string, approved bool, revisedCommand string) bool {
	g.mu.Lock()
	ch, ok := g.pending[approvalID]
	delete(g.pending, approvalID)
	g.mu.Unlock()
	if !ok {
		return false
	}
	ch <- Outcome{Approved: approved, RevisedCommand: revisedCommand}
	return true
}

// CancelAll denies every pending approval. Idempotent. Fired on turn
// end and session cancellation so no waiter stays suspended.
func (g *ApprovalGate) CancelAll() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, ch := range g.pending {
		ch <- Outcome{}
		delete(g.pending, id)
	}
}

// PendingCount returns the number of unresolved approvals.
func (g *ApprovalGate) PendingCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}

// GateRegistry tracks the approval gate of each running turn so the
// HTTP layer can route user responses. The worker registers a gate when
// its turn starts and removes it when the turn ends.
type GateRegistry struct {
	mu    sync.RWMutex
	gates map[string]*ApprovalGate
}

func NewGateRegistry() *GateRegistry {
	return &GateRegistry{gates: make(map[string]*ApprovalGate)}
}

// Register installs the gate for a session's running turn.
func (r *GateRegistry) Register(sessionID string, gate *ApprovalGate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gates[sessionID] = gate
}

// Remove drops the session's gate, denying anything still pending.
func (r *GateRegistry) Remove(sessionID string) {
	r.mu.Lock()
	gate := r.gates[sessionID]
	delete(r.gates, sessionID)
	r.mu.Unlock()
	if gate != nil {
		gate.CancelAll()
	}
}

// Resolve routes a user's approval response to the session's gate.
// Returns false when the session has no running turn or the approval ID
// is not pending.
func (r *GateRegistry) Resolve(sessionID, approvalID string, approved bool, revisedCommand string) bool {
	r.mu.RLock()
	gate := r.gates[sessionID]
	r.mu.RUnlock()
	if gate == nil {
		return false
	}
	return gate.HandleResponse(approvalID, approved, revisedCommand)
}
