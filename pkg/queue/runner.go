package queue

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/kiln-dev/kiln/ent"
	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/agent/controller"
	"github.com/kiln-dev/kiln/pkg/agent/dispatch"
	"github.com/kiln-dev/kiln/pkg/agent/prompt"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/host"
	"github.com/kiln-dev/kiln/pkg/masking"
	"github.com/kiln-dev/kiln/pkg/tools"
)

// Runner is the production TurnRunner. For each claimed session it opens
// the workspace, assembles a loop context from configuration, registers
// an approval gate, and hands control to the loop engine.
type Runner struct {
	cfg     *config.Config
	backend agent.ChatBackend
	db      *sql.DB
	bundle  *agent.ServiceBundle
	gates   *dispatch.GateRegistry
	prompts agent.PromptBuilder
	masker  *masking.Service
}

// NewRunner creates a turn runner.
func NewRunner(cfg *config.Config, backend agent.ChatBackend, db *sql.DB, bundle *agent.ServiceBundle, gates *dispatch.GateRegistry) *Runner {
	return &Runner{
		cfg:     cfg,
		backend: backend,
		db:      db,
		bundle:  bundle,
		gates:   gates,
		prompts: prompt.New(),
		masker:  masking.NewService(cfg.ToolPolicy),
	}
}

var _ TurnRunner = (*Runner)(nil)

// RunTurn drives one turn of the claimed session.
func (r *Runner) RunTurn(ctx context.Context, sess *ent.Session) *agent.TurnResult {
	h, err := host.NewLocalHost(sess.Workspace)
	if err != nil {
		return &agent.TurnResult{
			Status: agent.TurnStatusError,
			Error:  fmt.Errorf("opening workspace %s: %w", sess.Workspace, err),
		}
	}
	defer h.Close()

	mode := config.Mode(sess.Mode)
	allowed := tools.ForMode(mode)

	lc := &agent.LoopContext{
		SessionID:        sess.ID,
		TurnID:           uuid.New().String(),
		Task:             sess.Task,
		Model:            sess.Model,
		ModelConfig:      r.modelConfig(sess.Model),
		Policy:           r.cfg.ToolPolicy,
		GlobalContextCap: r.contextCap(),
		Executor: &agent.ExecutorConfig{
			Mode:              mode,
			AllowedTools:      allowed,
			AllowOutputToUser: true,
			AllowWrites:       mode.AllowsWrites(),
			MaxIterations:     r.cfg.Defaults.MaxIterationsFor(false),
			PromptBuilder:     r.prompts,
		},
		Backend:  r.backend,
		Registry: tools.Builtin(),
		Host:     h,
		Bus:      events.NewSessionBus(r.db, sess.ID),
		Services: r.bundle,
		Redactor: r.masker,
	}
	if slices.Contains(allowed, "run_subagent") {
		lc.RunSubAgent = controller.NewSubAgentRunner(lc)
	}

	gate := dispatch.NewApprovalGate()
	r.gates.Register(sess.ID, gate)
	defer r.gates.Remove(sess.ID)

	return controller.NewEngine(lc, gate).Run(ctx)
}

// modelConfig layers per-model overrides over the global defaults. The
// engine applies built-in fallbacks for anything still unset.
func (r *Runner) modelConfig(model string) *config.ModelConfig {
	mc := config.ModelConfig{}
	if r.cfg.Models != nil {
		mc = *r.cfg.Models.Overrides(model)
	}
	if d := r.cfg.Defaults; d != nil {
		if mc.Temperature == nil && d.Temperature != nil {
			mc.Temperature = d.Temperature
		}
		if mc.NumPredict == nil && d.NumPredict > 0 {
			mc.NumPredict = config.IntPtr(d.NumPredict)
		}
	}
	return &mc
}

// contextCap returns the configured context window ceiling.
func (r *Runner) contextCap() int {
	if d := r.cfg.Defaults; d != nil && d.GlobalContextCap > 0 {
		return d.GlobalContextCap
	}
	return config.DefaultGlobalContextCap
}
