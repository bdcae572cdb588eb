// Package dispatch executes the tool batches an agent iteration
// produces: approval mediation for dangerous actions, checkpoint
// snapshots before writes, a per-turn result cache, parallel/serial
// bucketing, and the UI events that narrate each action.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kiln-dev/kiln/ent/checkpointfile"
	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/services"
	"github.com/kiln-dev/kiln/pkg/tools"
)

const (
	// maxBatchSize is the hard cap on calls executed per iteration;
	// anything past it is dropped with a warning to the model.
	maxBatchSize = 15

	// batchSoftCap is where the model gets a "consider fewer tools"
	// hint without losing any calls.
	batchSoftCap = 8

	// maxParallelTools bounds the parallel bucket's concurrency.
	maxParallelTools = 8
)

// Dispatcher executes one iteration's tool batch. One Dispatcher serves
// one agent turn: the result cache, the checkpoint, and the approval
// gate are scoped to it. Disallowed tools are filtered out by the loop
// before a batch reaches it.
type Dispatcher struct {
	lc      *agent.LoopContext
	gate    *ApprovalGate
	cache   *resultCache
	timeout time.Duration
	log     *slog.Logger

	checkpointID string
}

// NewDispatcher creates the dispatcher for one agent turn.
func NewDispatcher(lc *agent.LoopContext, gate *ApprovalGate) *Dispatcher {
	var timeout time.Duration
	if lc.Policy != nil {
		timeout = lc.Policy.PerToolTimeout
	}
	return &Dispatcher{
		lc:      lc,
		gate:    gate,
		cache:   newResultCache(),
		timeout: timeout,
		log:     slog.With("session_id", lc.SessionID),
	}
}

// OpenCheckpoint creates the turn's undo checkpoint. Called once at
// turn start for write-capable modes; without it, writes still run but
// carry no snapshots.
func (d *Dispatcher) OpenCheckpoint(ctx context.Context) error {
	if d.lc.Services == nil || d.lc.Services.Checkpoint == nil {
		return nil
	}
	cp, err := d.lc.Services.Checkpoint.CreateCheckpoint(ctx, d.lc.SessionID)
	if err != nil {
		return err
	}
	d.checkpointID = cp.ID
	return nil
}

// routedCall tracks one call through classification, approval, caching,
// execution, and enrichment.
type routedCall struct {
	call     agent.ToolCall
	tool     agent.Tool
	actionID string

	serial bool
	denied bool
	cached bool

	// writePath is the workspace-relative target of a write-kind call.
	writePath string
	// preContent and preExisted capture the file state before the
	// write, for the checkpoint snapshot and the adds/dels stat.
	preContent string
	preExisted bool

	adds, dels int

	// result is pre-set by routing for unknown tools, denials, and
	// cache hits; otherwise written by execution.
	result *agent.ToolResult
}

// ExecuteBatch runs one iteration's calls: classification, approvals,
// and pre-write snapshots first (serially, in call order), then the
// parallel and serial buckets, then enrichment and UI events. Results
// come back in the original call order.
func (d *Dispatcher) ExecuteBatch(ctx context.Context, calls []agent.ToolCall) *BatchResult {
	batch := &BatchResult{}
	if len(calls) == 0 {
		return batch
	}

	switch {
	case len(calls) > maxBatchSize:
		d.log.Warn("Truncating oversized tool batch", "requested", len(calls), "executed", maxBatchSize)
		batch.Notes = append(batch.Notes, fmt.Sprintf(
			"You requested %d tool calls; only the first %d were executed. Issue fewer, more deliberate calls per iteration.",
			len(calls), maxBatchSize))
		calls = calls[:maxBatchSize]
	case len(calls) > batchSoftCap:
		batch.Notes = append(batch.Notes, fmt.Sprintf(
			"You requested %d tool calls in one iteration. Consider fewer, more targeted calls.", len(calls)))
	}

	policy := d.resolvePolicy(ctx)

	// Approvals resolve here, one prompt at a time in call order, and
	// no tool output can race ahead of a denial.
	routed := make([]*routedCall, len(calls))
	for i, call := range calls {
		routed[i] = d.route(ctx, call, policy)
	}

	d.executeBuckets(ctx, routed)

	for _, rc := range routed {
		d.enrich(ctx, rc)
		d.emitFinal(ctx, rc)

		batch.Results = append(batch.Results, CallResult{
			Call:   rc.call,
			Result: rc.result,
			Denied: rc.denied,
			Cached: rc.cached,
		})
		if rc.writePath != "" && !rc.denied && !rc.result.Failed() {
			batch.WroteFiles = appendUnique(batch.WroteFiles, rc.writePath)
		}
	}

	d.persistFilesChanged(ctx, routed)
	return batch
}

// route classifies one call before anything executes: unknown tools
// fail fast, terminal and sensitive-edit calls pass the approval gate,
// write targets are snapshotted, and cacheable reads consult the cache.
func (d *Dispatcher) route(ctx context.Context, call agent.ToolCall, policy effectivePolicy) *routedCall {
	rc := &routedCall{call: call, actionID: uuid.New().String()}

	tool, ok := d.lc.Registry.Lookup(call.Name)
	if !ok {
		d.log.Warn("Model requested unknown tool", "tool", call.Name)
		rc.result = &agent.ToolResult{Error: fmt.Sprintf("unknown tool %q", call.Name)}
		return rc
	}
	rc.tool = tool

	switch tool.Kind() {
	case agent.ToolKindTerminal:
		d.routeTerminal(ctx, rc, policy)
	case agent.ToolKindWrite:
		d.routeWrite(ctx, rc, policy)
	case agent.ToolKindSubAgent:
		rc.serial = true
	}
	if rc.denied || rc.result != nil {
		return rc
	}

	if tool.Cacheable() {
		if res, hit := d.cache.get(call.CacheKey()); hit {
			rc.result = res
			rc.cached = true
		}
	}
	return rc
}

func (d *Dispatcher) routeTerminal(ctx context.Context, rc *routedCall, policy effectivePolicy) {
	command, _ := rc.call.Args["command"].(string)
	severity := tools.AnalyzeCommand(command, policy.safePrefixes)
	if !RequiresApproval(severity, policy.autoApproveCommands) {
		return
	}

	outcome := d.requestApproval(ctx, agent.Approval{
		ID:       uuid.New().String(),
		Kind:     agent.ApprovalKindTerminal,
		Payload:  command,
		Severity: severity.ClampDisplay(),
	})
	if !outcome.Approved {
		d.deny(rc)
		return
	}
	if revised := strings.TrimSpace(outcome.RevisedCommand); revised != "" && revised != command {
		d.log.Info("User revised command before approving")
		// Copy the args so the revision stays local to execution; the
		// conversation history keeps the call the model actually made.
		args := make(map[string]any, len(rc.call.Args))
		for k, v := range rc.call.Args {
			args[k] = v
		}
		args["command"] = revised
		rc.call.Args = args
	}
}

func (d *Dispatcher) routeWrite(ctx context.Context, rc *routedCall, policy effectivePolicy) {
	path, _ := rc.call.Args["path"].(string)
	if strings.TrimSpace(path) == "" {
		// The tool's own schema validation produces the error message.
		return
	}
	rc.writePath = path

	if tools.IsSensitivePath(path, policy.sensitivePatterns) && !policy.autoApproveSensitiveEdits {
		outcome := d.requestApproval(ctx, agent.Approval{
			ID:       uuid.New().String(),
			Kind:     agent.ApprovalKindFileEdit,
			Payload:  path,
			Severity: agent.SeverityHigh,
		})
		if !outcome.Approved {
			d.deny(rc)
			return
		}
	}

	d.snapshotBeforeWrite(ctx, rc)

	// A later cacheable read of this path in the same batch must not
	// see a pre-write entry.
	d.cache.invalidatePath(path)
}

func (d *Dispatcher) deny(rc *routedCall) {
	rc.denied = true
	rc.result = &agent.ToolResult{Error: "denied by user"}
}

// requestApproval publishes the approval request, suspends until the
// user rules or the turn is cancelled, and publishes the outcome. Both
// sides are persisted so a reloaded session shows the exchange.
func (d *Dispatcher) requestApproval(ctx context.Context, req agent.Approval) Outcome {
	if d.gate == nil {
		// Without a gate there is no user to ask; treat as denied.
		return Outcome{}
	}

	payload := events.ApprovalRequestPayload{
		ApprovalID: req.ID,
		Kind:       string(req.Kind),
		Severity:   string(req.Severity),
	}
	if req.Kind == agent.ApprovalKindTerminal {
		payload.Command = req.Payload
	} else {
		payload.Path = req.Payload
	}

	outcome := d.gate.RequestApproval(ctx, req.ID, func() {
		if err := d.lc.Bus.Emit(ctx, payload); err != nil {
			d.log.Warn("Failed to publish approval request", "approval_id", req.ID, "error", err)
		}
	})

	if err := d.lc.Bus.Emit(ctx, events.ApprovalResultPayload{
		ApprovalID:     req.ID,
		Approved:       outcome.Approved,
		RevisedCommand: outcome.RevisedCommand,
	}); err != nil {
		d.log.Warn("Failed to publish approval result", "approval_id", req.ID, "error", err)
	}
	return outcome
}

// snapshotPlan decides what the checkpoint must remember about a path
// before a write-kind call touches it. ok is false when there is
// nothing restorable: directory deletes and edits of missing files.
func snapshotPlan(callName string, existed, isDir bool, content string) (action checkpointfile.Action, original *string, ok bool) {
	switch callName {
	case "delete_path":
		if !existed || isDir {
			return "", nil, false
		}
		return checkpointfile.ActionDeleted, &content, true
	case "edit":
		if !existed || isDir {
			return "", nil, false
		}
		return checkpointfile.ActionModified, &content, true
	default:
		if isDir {
			return "", nil, false
		}
		if existed {
			return checkpointfile.ActionModified, &content, true
		}
		return checkpointfile.ActionCreated, nil, true
	}
}

// snapshotBeforeWrite records the file's pre-write state in the turn
// checkpoint. The snapshot strictly precedes the write; failures
// degrade to a warning because undo bookkeeping must not block the
// write itself.
func (d *Dispatcher) snapshotBeforeWrite(ctx context.Context, rc *routedCall) {
	stat, statErr := d.lc.Host.Stat(ctx, rc.writePath)
	existed := statErr == nil
	isDir := existed && stat.IsDir

	content := ""
	if existed && !isDir {
		var err error
		content, err = d.lc.Host.ReadFile(ctx, rc.writePath)
		if err != nil {
			d.log.Warn("Failed to capture pre-write content", "path", rc.writePath, "error", err)
			return
		}
		rc.preContent = content
		rc.preExisted = true
	}

	action, original, ok := snapshotPlan(rc.call.Name, existed, isDir, content)
	if !ok || d.checkpointID == "" || d.lc.Services == nil || d.lc.Services.Checkpoint == nil {
		return
	}
	if err := d.lc.Services.Checkpoint.SnapshotFile(ctx, services.SnapshotFileInput{
		CheckpointID:    d.checkpointID,
		Path:            rc.writePath,
		OriginalContent: original,
		Action:          action,
	}); err != nil {
		d.log.Warn("Failed to snapshot file before write", "path", rc.writePath, "error", err)
	}
}

// executeBuckets runs the calls still pending after routing: the
// parallel bucket under a bounded group, then the serial bucket in call
// order. Sub-agents are serial because each one drives its own model
// loop against the shared backend.
func (d *Dispatcher) executeBuckets(ctx context.Context, routed []*routedCall) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTools)
	for _, rc := range routed {
		if rc.result != nil || rc.serial {
			continue
		}
		g.Go(func() error {
			d.executeCall(gctx, rc)
			return nil
		})
	}
	_ = g.Wait()

	for _, rc := range routed {
		if rc.result != nil || !rc.serial {
			continue
		}
		d.executeSubAgent(ctx, rc)
	}
}

// executeCall runs one parallel-bucket call, converting host faults and
// timeouts into error results so every call lands an entry.
func (d *Dispatcher) executeCall(ctx context.Context, rc *routedCall) {
	d.postRunning(ctx, rc)

	// The terminal tool manages its own timeout; approval waits are
	// already behind us.
	callCtx := ctx
	if d.timeout > 0 && rc.tool.Kind() != agent.ToolKindTerminal {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := rc.tool.Execute(callCtx, d.lc.Host, rc.call.Args)
	elapsed := time.Since(start).Milliseconds()

	switch {
	case err == nil && res == nil:
		rc.result = &agent.ToolResult{Error: "tool returned no result"}
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		rc.result = &agent.ToolResult{Error: fmt.Sprintf("tool timed out after %s", d.timeout)}
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		rc.result = &agent.ToolResult{Error: "cancelled"}
	case err != nil:
		rc.result = &agent.ToolResult{Error: err.Error()}
	default:
		rc.result = res
	}
	if rc.result.ElapsedMs == 0 {
		rc.result.ElapsedMs = elapsed
	}

	// Sweep before the cache put so hits serve redacted copies.
	rc.result.Output = d.redact(rc.result.Output)

	if rc.tool.Cacheable() && !rc.result.Failed() {
		d.cache.put(rc.call.CacheKey(), rc.result)
	}
}

// redact runs the configured secret sweep over model-visible output.
func (d *Dispatcher) redact(output string) string {
	if d.lc.Redactor == nil {
		return output
	}
	return d.lc.Redactor.RedactToolOutput(output)
}

// executeSubAgent dispatches the run_subagent pseudo-tool through the
// injected runner, wrapping the delegated turn's actions in a progress
// group. No per-tool timeout applies: a sub-agent runs a whole loop.
func (d *Dispatcher) executeSubAgent(ctx context.Context, rc *routedCall) {
	req := subAgentRequest(rc.call.Args)

	if d.lc.RunSubAgent == nil {
		rc.result = &agent.ToolResult{Error: "run_subagent is not available in this mode"}
		return
	}
	if strings.TrimSpace(req.Task) == "" {
		rc.result = &agent.ToolResult{Error: "task must not be empty"}
		return
	}

	d.postRunning(ctx, rc)

	groupID := uuid.New().String()
	title := req.Title
	if title == "" {
		title = compact(req.Task, 60)
	}
	if err := d.lc.Bus.Post(ctx, events.StartProgressGroupPayload{GroupID: groupID, Title: title}); err != nil {
		d.log.Warn("Failed to open progress group", "error", err)
	}

	start := time.Now()
	summary, err := d.lc.RunSubAgent(ctx, req)
	elapsed := time.Since(start).Milliseconds()

	finish := events.FinishProgressGroupPayload{GroupID: groupID}
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		rc.result = &agent.ToolResult{Error: "cancelled", ElapsedMs: elapsed}
		finish.Summary = "Cancelled"
	case err != nil:
		rc.result = &agent.ToolResult{Error: fmt.Sprintf("sub-agent failed: %v", err), ElapsedMs: elapsed}
		finish.Summary = "Failed"
	case strings.TrimSpace(summary) == "":
		rc.result = &agent.ToolResult{Output: "The sub-agent returned no findings.", ElapsedMs: elapsed}
		finish.Summary = "No findings"
	default:
		// The child loop swept its own tool output, but a sub-agent's
		// findings can also quote thinking text; sweep the summary too.
		rc.result = &agent.ToolResult{Output: d.redact(summary), ElapsedMs: elapsed}
		finish.Summary = "Done"
	}
	if err := d.lc.Bus.Post(ctx, finish); err != nil {
		d.log.Warn("Failed to close progress group", "error", err)
	}
}

// subAgentRequest decodes the loosely-typed run_subagent arguments.
func subAgentRequest(args map[string]any) agent.SubAgentRequest {
	str := func(key string) string {
		v, _ := args[key].(string)
		return v
	}
	return agent.SubAgentRequest{
		Task:        str("task"),
		Mode:        str("mode"),
		Title:       str("title"),
		ContextHint: str("context_hint"),
		Description: str("description"),
	}
}

// enrich adds post-execution context: the adds/dels stat for writes and
// an [AUTO-DIAGNOSTICS] block appended to the model-visible output when
// an edited file settles with errors.
func (d *Dispatcher) enrich(ctx context.Context, rc *routedCall) {
	if rc.writePath == "" || rc.denied || rc.result == nil || rc.result.Failed() {
		return
	}

	if rc.call.Name == "delete_path" {
		_, rc.dels = lineDiff(rc.preContent, "")
		return
	}

	after, err := d.lc.Host.ReadFile(ctx, rc.writePath)
	if err != nil {
		return
	}
	rc.adds, rc.dels = lineDiff(rc.preContent, after)

	if note := diagnosticsNote(ctx, d.lc.Host, rc.writePath); note != "" {
		rc.result.Output += note
	}
}

// postRunning publishes the transient spinner for a call. Running
// actions are deliberately not persisted; a reloaded session shows only
// resolved actions.
func (d *Dispatcher) postRunning(ctx context.Context, rc *routedCall) {
	if err := d.lc.Bus.Post(ctx, events.ToolActionPayload{
		ActionID: rc.actionID,
		Tool:     rc.call.Name,
		Status:   events.ToolActionRunning,
		Title:    actionTitle(rc.call),
		Path:     pathArg(rc.call),
	}); err != nil {
		d.log.Warn("Failed to publish running tool action", "tool", rc.call.Name, "error", err)
	}
}

// emitFinal persists and publishes the resolved action for a call.
func (d *Dispatcher) emitFinal(ctx context.Context, rc *routedCall) {
	payload := events.ToolActionPayload{
		ActionID: rc.actionID,
		Tool:     rc.call.Name,
		Status:   events.ToolActionSuccess,
		Title:    actionTitle(rc.call),
		Path:     pathArg(rc.call),
		Cached:   rc.cached,
		Adds:     rc.adds,
		Dels:     rc.dels,
	}
	switch {
	case rc.denied:
		payload.Status = events.ToolActionError
		payload.Detail = "Denied by user"
	case rc.result != nil && rc.result.Failed():
		payload.Status = events.ToolActionError
		payload.Detail = compact(rc.result.Error, 200)
	case rc.call.Name == "read_file" && rc.result != nil:
		payload.Detail = chunkDetail(rc.result.Output)
	}
	if err := d.lc.Bus.Emit(ctx, payload); err != nil {
		d.log.Warn("Failed to persist tool action", "tool", rc.call.Name, "error", err)
	}
}

// persistFilesChanged records the batch's file mutations for session
// reload. Live rendering already happened inline on the success
// actions, so this is persist-only.
func (d *Dispatcher) persistFilesChanged(ctx context.Context, routed []*routedCall) {
	var items []events.FileChangeItem
	seen := make(map[string]bool)
	for _, rc := range routed {
		if rc.writePath == "" || rc.denied || rc.result == nil || rc.result.Failed() || seen[rc.writePath] {
			continue
		}
		seen[rc.writePath] = true
		action := "modified"
		switch {
		case rc.call.Name == "delete_path":
			action = "deleted"
		case !rc.preExisted:
			action = "created"
		}
		items = append(items, events.FileChangeItem{
			Path:   rc.writePath,
			Action: action,
			Adds:   rc.adds,
			Dels:   rc.dels,
		})
	}
	if len(items) == 0 {
		return
	}
	if err := d.lc.Bus.Persist(ctx, events.FilesChangedPayload{Files: items}); err != nil {
		d.log.Warn("Failed to persist file changes", "error", err)
	}
}

// effectivePolicy is the approval input for one batch: the session's
// live toggles layered over configured defaults.
type effectivePolicy struct {
	autoApproveCommands       bool
	autoApproveSensitiveEdits bool
	safePrefixes              []string
	sensitivePatterns         []string
}

// resolvePolicy re-reads the session's approval toggles at batch start
// so a mid-turn policy change applies from the next batch on. Falls
// back to the configured defaults when the session cannot be read.
func (d *Dispatcher) resolvePolicy(ctx context.Context) effectivePolicy {
	var p effectivePolicy
	if d.lc.Policy != nil {
		p.autoApproveCommands = d.lc.Policy.AutoApproveCommands
		p.autoApproveSensitiveEdits = d.lc.Policy.AutoApproveSensitiveEdits
		p.safePrefixes = d.lc.Policy.SafeCommandPrefixes
		p.sensitivePatterns = d.lc.Policy.SensitiveFilePatterns
	}
	if d.lc.Services == nil || d.lc.Services.Session == nil {
		return p
	}
	sess, err := d.lc.Services.Session.GetSession(ctx, d.lc.SessionID)
	if err != nil {
		d.log.Warn("Failed to re-read session approval policy", "error", err)
		return p
	}
	p.autoApproveCommands = sess.AutoApproveCommands
	p.autoApproveSensitiveEdits = sess.AutoApproveSensitiveEdits
	if len(sess.SensitiveFilePatterns) > 0 {
		p.sensitivePatterns = sess.SensitiveFilePatterns
	}
	return p
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
