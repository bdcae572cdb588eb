// Package controller implements the loop engines that drive one user
// turn: streaming collection with UI narration, tool-call parsing and
// recovery, completion vetting, history compaction, and the closeout
// ladder. The same Engine runs top-level turns and delegated sub-agent
// explorations; an ExecutorConfig decides what it may touch.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/kiln-dev/kiln/pkg/agent"
	"github.com/kiln-dev/kiln/pkg/agent/budget"
	"github.com/kiln-dev/kiln/pkg/agent/dispatch"
	"github.com/kiln-dev/kiln/pkg/config"
	"github.com/kiln-dev/kiln/pkg/events"
	"github.com/kiln-dev/kiln/pkg/services"
	"github.com/kiln-dev/kiln/pkg/tools"
)

// maxCallsPerIteration caps how many calls of one batch are dispatched
// after dedup; the overflow is dropped with a note so the model learns
// to batch less greedily.
const maxCallsPerIteration = 10

// Engine drives one turn of the agent loop. One instance per turn;
// not reusable.
type Engine struct {
	lc   *agent.LoopContext
	gate *dispatch.ApprovalGate
	log  *slog.Logger

	history    *agent.ConversationHistory
	memory     *agent.SessionMemory
	budgeter   *budget.Budgeter
	state      *agent.IterationState
	window     *signatureWindow
	gates      completionGates
	dispatcher *dispatch.Dispatcher

	capability  *agent.ModelCapability
	nativeTools bool
	think       *bool
	temperature float64
	numPredict  int
	stop        []string
	keepAlive   string
	toolDefs    []agent.ToolDefinition
	knownTools  map[string]bool

	// Turn accumulators.
	filesChanged  []string
	ranTerminal   bool
	streamedText  []string
	thinkingLog   []string
	recentOutputs []string
	recentCalls   []string
	toolRecords   []toolRecord
	usage         agent.TokenUsage

	// forceCompact is set when the server appears to have truncated the
	// prompt; the next prepareIteration compacts regardless of estimate.
	forceCompact bool
	lastFocus    string

	background sync.WaitGroup
}

// NewEngine builds the loop engine for one turn. gate may be nil for
// loops that never request approval (sub-agents run without one).
func NewEngine(lc *agent.LoopContext, gate *dispatch.ApprovalGate) *Engine {
	return &Engine{
		lc:     lc,
		gate:   gate,
		log:    slog.With("session_id", lc.SessionID, "mode", string(lc.Executor.Mode)),
		memory: agent.NewSessionMemory(),
		state:  &agent.IterationState{Max: lc.Executor.MaxIterations},
		window: newSignatureWindow(),
	}
}

type iterationOutcome int

const (
	iterationContinue iterationOutcome = iota
	iterationDone
	iterationCancelled
	iterationFatal
)

type iterationVerdict struct {
	kind iterationOutcome
	err  error
}

// Run drives the turn until completion, cancellation, iteration
// exhaustion, or a fatal error. Intermediate state is persisted as it
// happens; the returned result is a light summary for the worker.
func (e *Engine) Run(ctx context.Context) *agent.TurnResult {
	e.prepare(ctx)

	for {
		e.state.Current++
		if e.state.Current > e.state.Max {
			e.log.Info("Iteration budget exhausted", "max", e.state.Max)
			return e.finalize(ctx, agent.TurnStatusCompleted, nil)
		}
		verdict := e.iterate(ctx)
		switch verdict.kind {
		case iterationDone:
			return e.finalize(ctx, agent.TurnStatusCompleted, nil)
		case iterationCancelled:
			return e.finalize(ctx, agent.TurnStatusCancelled, nil)
		case iterationFatal:
			return e.finalize(ctx, agent.TurnStatusError, verdict.err)
		}
	}
}

// prepare resolves model capabilities, builds the opening conversation,
// and opens the turn checkpoint.
func (e *Engine) prepare(ctx context.Context) {
	capability, err := e.lc.Backend.Capability(ctx, e.lc.Model)
	if err != nil {
		e.log.Warn("Model capability lookup failed; assuming text-mode tools, no thinking",
			"model", e.lc.Model, "error", err)
	}
	e.capability = capability
	e.nativeTools = capability != nil && capability.SupportsTools

	mc := e.lc.ModelConfig
	if mc == nil {
		mc = &config.ModelConfig{}
	}
	if capability != nil && capability.SupportsThinking {
		if mc.Thinking != nil {
			e.think = mc.Thinking
		} else {
			e.think = config.BoolPtr(true)
		}
	}
	e.temperature = config.DefaultTemperature
	if mc.Temperature != nil {
		e.temperature = *mc.Temperature
	}
	e.numPredict = config.DefaultNumPredict
	if mc.NumPredict != nil {
		e.numPredict = *mc.NumPredict
	}
	e.stop = []string(mc.Stop)
	e.keepAlive = mc.KeepAlive
	e.budgeter = budget.New(capability, mc, e.lc.GlobalContextCap, e.numPredict)

	e.toolDefs = e.lc.Registry.Definitions(e.lc.Executor.AllowedTools)
	e.knownTools = make(map[string]bool, len(e.toolDefs))
	for _, def := range e.toolDefs {
		e.knownTools[def.Name] = true
	}

	pb := e.lc.Executor.PromptBuilder
	e.history = agent.NewConversationHistory(
		pb.BuildSystemPrompt(e.lc, e.toolDefs, e.nativeTools),
		pb.BuildTaskMessage(e.lc),
	)
	e.seedHistory(ctx)
	e.loadMemory(ctx)
	e.appendRow(ctx, services.AppendMessageInput{Role: agent.RoleUser, Content: e.lc.Task})
	e.maybeStartTitle(ctx)

	e.dispatcher = dispatch.NewDispatcher(e.lc, e.gate)
	if e.lc.Executor.AllowWrites {
		if err := e.dispatcher.OpenCheckpoint(ctx); err != nil {
			e.log.Warn("Failed to open turn checkpoint; writes will not be undoable", "error", err)
		}
	}
	if src, ok := e.lc.Host.(agent.ExternalChangeSource); ok {
		src.DrainExternalChanges() // discard pre-turn noise
	}
	e.lastFocus = e.lc.Host.ActiveEditorPath()
}

func (e *Engine) iterate(ctx context.Context) iterationVerdict {
	if ctx.Err() != nil {
		return iterationVerdict{kind: iterationCancelled}
	}
	i := e.state.Current
	e.post(ctx, events.IterationBoundaryPayload{Iteration: i, MaxIterations: e.state.Max})

	if i > 1 {
		e.prepareIteration(ctx)
	}

	msgs := e.history.PrepareForRequest()
	estimate := budget.EstimateTokens(msgs)
	req := e.chatRequest(msgs, false)
	if e.nativeTools {
		req.Tools = e.toolDefs
	}

	stream, err := e.lc.Backend.Chat(ctx, req)
	if err != nil {
		return e.recordModelFailure(ctx, err)
	}
	collector := newStreamCollector(e.lc.Bus, e.log, e.lc.Model, e.knownTools)
	res, streamErr := collector.collect(ctx, stream)

	if ctx.Err() != nil {
		// The stream channel closes on cancellation without an error
		// chunk; keep whatever thinking was collected for the timeline.
		e.persistThinking(context.WithoutCancel(ctx), res)
		return iterationVerdict{kind: iterationCancelled}
	}
	if streamErr != nil {
		e.persistThinking(ctx, res)
		return e.recordModelFailure(ctx, streamErr)
	}

	e.usage.Add(res.PromptTokens, res.CompletionTokens)
	if e.budgeter.RecordActualPromptTokens(res.PromptTokens, estimate) {
		e.log.Warn("Actual prompt tokens far below estimate; server may be truncating the prompt",
			"actual", res.PromptTokens, "estimated", estimate)
		e.forceCompact = true
	}
	e.post(ctx, events.TokenUsagePayload{
		PromptTokens:     res.PromptTokens,
		CompletionTokens: res.CompletionTokens,
		WindowTokens:     e.budgeter.EffectiveWindow(),
		PercentUsed:      e.budgeter.UsageFraction(res.PromptTokens) * 100,
	})
	e.state.RecordSuccess()

	if res.Truncated && strings.TrimSpace(res.Response) != "" {
		e.log.Info("Response hit the output limit; asking the model to continue")
		pushed := e.history.AddAssistantMessage(res.Response, res.Thinking)
		e.persistAssistant(ctx, pushed.Content, nil)
		e.persistThinking(ctx, res)
		e.rememberText(res.Response, res.Thinking)
		e.addContinuation(ctx, "Your previous response was cut off at the output limit. Continue exactly where you left off without repeating yourself.")
		return iterationVerdict{kind: iterationContinue}
	}

	e.persistThinking(ctx, res)

	calls := res.NativeCalls
	response := res.Response
	if !e.nativeTools {
		calls, response = ExtractToolCalls(response, e.knownTools)
	}
	response = dedupThinkingEcho(response, res.Thinking)
	recovered, recoverHint := RecoverToolCalls(res.ToolParseErrors, e.log)
	calls = append(calls, recovered...)
	e.rememberText(response, res.Thinking)

	if IsCompletionSignaled(response, res.Thinking) {
		return e.handleCompletion(ctx, response, res.Thinking)
	}

	if len(calls) == 0 {
		return e.handleNoToolTurn(ctx, i, response, res.Thinking, recoverHint)
	}
	e.state.RecordToolUse()
	return e.executeCalls(ctx, i, response, res.Thinking, calls, recoverHint)
}

// handleCompletion vets a declared completion against the gates and
// either ends the turn or feeds the rejection back.
func (e *Engine) handleCompletion(ctx context.Context, response, thinking string) iterationVerdict {
	pushed := e.history.AddAssistantMessage(StripSentinel(response), thinking)
	if strings.TrimSpace(pushed.Content) != "" {
		e.persistAssistant(ctx, pushed.Content, nil)
	}
	note := e.gates.check(ctx, gateInput{
		task:        e.lc.Task,
		wroteFiles:  e.filesChanged,
		ranTerminal: e.ranTerminal,
		allowWrites: e.lc.Executor.AllowWrites,
		host:        e.lc.Host,
	})
	if note != "" {
		e.log.Info("Completion rejected", "iteration", e.state.Current, "reason", oneLine(note, 80))
		e.addContinuation(ctx, note)
		return iterationVerdict{kind: iterationContinue}
	}
	e.log.Info("Completion signaled", "iteration", e.state.Current)
	return iterationVerdict{kind: iterationDone}
}

// handleNoToolTurn runs the escalation ladder for an assistant turn
// that called no tools and did not declare completion.
func (e *Engine) handleNoToolTurn(ctx context.Context, iteration int, response, thinking, recoverHint string) iterationVerdict {
	pushed := e.history.AddAssistantMessage(response, thinking)
	if strings.TrimSpace(pushed.Content) != "" {
		e.persistAssistant(ctx, pushed.Content, nil)
	}
	streak := e.state.RecordNoTool()
	switch checkNoToolCompletion(response, len(e.filesChanged) > 0, streak) {
	case noToolBreakImplicit:
		e.log.Info("Treating tool-free answer after file changes as completion")
		return iterationVerdict{kind: iterationDone}
	case noToolBreakConsecutive:
		e.log.Info("No tool calls in consecutive iterations; concluding", "streak", streak)
		return iterationVerdict{kind: iterationDone}
	}
	note := recoverHint
	if note == "" {
		note = e.memory.CompactSummary()
	}
	probe := ControlPacket{
		State:               ControlNeedTools,
		Iteration:           iteration,
		MaxIterations:       e.state.Max,
		RemainingIterations: e.state.Remaining(),
		FilesChanged:        e.filesChanged,
		Note:                note,
	}
	e.addContinuation(ctx, probe.Render())
	return iterationVerdict{kind: iterationContinue}
}

// executeCalls filters, dispatches, and records one tool batch, then
// appends the results and the next control packet.
func (e *Engine) executeCalls(ctx context.Context, iteration int, response, thinking string, calls []agent.ToolCall, recoverHint string) iterationVerdict {
	var notes []string
	if recoverHint != "" {
		notes = append(notes, recoverHint)
	}

	kept, disallowed := tools.Filter(calls, e.lc.Executor.AllowedTools)
	if len(disallowed) > 0 {
		names := uniqueToolNames(disallowed)
		e.log.Info("Dropped tool calls not allowed in this mode",
			"mode", string(e.lc.Executor.Mode), "tools", strings.Join(names, ","))
		notes = append(notes, fmt.Sprintf("These tools are not available in %s mode and were skipped: %s.",
			e.lc.Executor.Mode, strings.Join(names, ", ")))
	}

	kept, duplicates := e.window.Filter(kept, iteration)
	if duplicates > 0 {
		e.log.Info("Dropped duplicate tool calls", "count", duplicates)
	}

	if len(kept) == 0 {
		if duplicates > 0 {
			notes = append(notes, "Every remaining call repeated one you already made. Review the earlier results and take a different action, or finish with "+agent.CompletionSentinel+".")
		}
		pushed := e.history.AddAssistantMessage(response, thinking)
		if strings.TrimSpace(pushed.Content) != "" {
			e.persistAssistant(ctx, pushed.Content, nil)
		}
		e.addContinuation(ctx, strings.Join(notes, "\n\n"))
		return iterationVerdict{kind: iterationContinue}
	}

	if len(kept) > maxCallsPerIteration {
		notes = append(notes, fmt.Sprintf("You issued %d tool calls; only the first %d were executed. Batch fewer calls per step.",
			len(kept), maxCallsPerIteration))
		kept = kept[:maxCallsPerIteration]
	}

	pushed := e.history.AddAssistantToolMessage(agent.AssistantToolTurn{
		ToolCalls:   kept,
		Native:      e.nativeTools,
		Response:    response,
		Thinking:    thinking,
		ToolSummary: toolCallSummary(kept),
	})
	e.persistAssistant(ctx, pushed.Content, kept)

	batch := e.dispatcher.ExecuteBatch(ctx, kept)
	if ctx.Err() != nil {
		return iterationVerdict{kind: iterationCancelled}
	}
	batch.Notes = append(batch.Notes, notes...)
	e.recordBatch(ctx, iteration, batch)

	packet := ControlPacket{
		State:               ControlNeedTools,
		Iteration:           iteration,
		MaxIterations:       e.state.Max,
		RemainingIterations: e.state.Remaining(),
		FilesChanged:        e.filesChanged,
		ToolResults:         batchDigest(batch),
		Note:                strings.Join(batch.Notes, " "),
	}
	if batch.FailedCount() > 0 {
		packet.State = ControlNeedFixes
	}
	if e.state.Remaining() <= 1 {
		packet.State = ControlNeedSummary
	}

	if e.nativeTools {
		results := batch.NativeResults()
		e.history.AddNativeToolResults(results)
		for _, r := range results {
			e.appendRow(ctx, services.AppendMessageInput{Role: agent.RoleTool, Content: r.Content, ToolName: r.ToolName})
		}
		e.addContinuation(ctx, packet.Render())
	} else {
		e.history.AddXmlToolResults(batch.TextResults(), packet.Render())
		e.persistLastHistoryRow(ctx)
	}
	return iterationVerdict{kind: iterationContinue}
}

// recordBatch folds one executed batch into the turn accumulators and
// the session memory reminder.
func (e *Engine) recordBatch(ctx context.Context, iteration int, batch *dispatch.BatchResult) {
	for _, path := range batch.WroteFiles {
		e.filesChanged = appendUnique(e.filesChanged, path)
	}
	names := make([]string, 0, len(batch.Results))
	for _, r := range batch.Results {
		names = append(names, r.Call.Name)
		if r.Call.Name == "terminal" && !r.Denied {
			e.ranTerminal = true
		}
		label := callBullet(r.Call)
		content := r.ModelContent()
		e.recentOutputs = append(e.recentOutputs, fmt.Sprintf("[%s]\n%s", label, truncateChars(content, summaryOutputCap)))
		e.recentCalls = append(e.recentCalls, label)
		if e.lc.IsSubAgent() && !r.Denied && r.Result != nil && !r.Result.Failed() && dataBearingTools[r.Call.Name] {
			e.toolRecords = append(e.toolRecords, toolRecord{
				label:   label,
				content: truncateChars(content, subAgentPerToolCap),
			})
		}
	}
	e.recentOutputs = lastN(e.recentOutputs, summarySourceCalls)
	e.recentCalls = lastN(e.recentCalls, summarySourceCalls)

	e.memory.AddIterationSummary(agent.IterationSummary{
		Iteration: iteration,
		ToolNames: names,
		Brief:     oneLine(toolNamesBrief(batch), 160),
		Success:   batch.FailedCount() == 0,
	})
	e.history.UpdateSystemPrompt(e.memory.InjectReminder)
	e.saveMemory(ctx)
}

// toolNamesBrief is the one-line digest of a batch for session memory.
func toolNamesBrief(batch *dispatch.BatchResult) string {
	parts := make([]string, 0, len(batch.Results))
	for _, r := range batch.Results {
		label := callBullet(r.Call)
		switch {
		case r.Denied:
			label += " (denied)"
		case r.Result.Failed():
			label += " (failed)"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}

// prepareIteration runs between-iteration housekeeping: stale note
// cleanup, compaction when the prompt outgrew its budget, and one-shot
// notes about the world changing under the turn.
func (e *Engine) prepareIteration(ctx context.Context) {
	e.history.CleanStaleSystemNotes()

	prompt := e.budgeter.PromptTokens(budget.EstimateTokens(e.history.Messages()))
	if e.forceCompact || e.budgeter.ShouldCompact(prompt) {
		forced := e.forceCompact
		e.forceCompact = false
		result, err := e.compactHistory(ctx)
		switch {
		case err != nil:
			e.log.Warn("History compaction failed; continuing with full history", "error", err)
		case result != nil:
			e.log.Info("Compacted history", "forced", forced,
				"messages", result.SummarizedMessages,
				"tokens_before", result.TokensBefore, "tokens_after", result.TokensAfter)
			// The stale pre-compaction count would re-trigger the usage
			// note below.
			prompt = result.TokensAfter
		}
	}

	if src, ok := e.lc.Host.(agent.ExternalChangeSource); ok {
		if changed := src.DrainExternalChanges(); len(changed) > 0 {
			e.addSystemNote(ctx, "These files were modified outside this session since the last step: "+
				strings.Join(changed, ", ")+". Re-read them before relying on their contents.")
		}
	}
	if focus := e.lc.Host.ActiveEditorPath(); focus != "" && focus != e.lastFocus {
		e.lastFocus = focus
		e.addSystemNote(ctx, "The user is now looking at "+focus+".")
	}
	if note, ok := e.budgeter.UsageNote(prompt); ok {
		e.addSystemNote(ctx, note)
	}
}

// recordModelFailure applies the retry-or-abort policy for a failed
// model call.
func (e *Engine) recordModelFailure(ctx context.Context, err error) iterationVerdict {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return iterationVerdict{kind: iterationCancelled}
	}
	e.state.RecordFailure(err.Error())
	e.log.Warn("Model call failed", "iteration", e.state.Current,
		"consecutive", e.state.ConsecutiveFailures, "error", err)
	if e.state.ShouldAbortOnFailures() {
		e.emit(ctx, events.ShowErrorPayload{
			Message:   err.Error(),
			Model:     e.lc.Model,
			Phase:     "model_call",
			Iteration: e.state.Current,
		})
		return iterationVerdict{
			kind: iterationFatal,
			err:  fmt.Errorf("model call failed %d times in a row: %w", e.state.ConsecutiveFailures, err),
		}
	}
	e.addContinuation(ctx, fmt.Sprintf("Error from previous attempt: %s. Please try again.", err.Error()))
	return iterationVerdict{kind: iterationContinue}
}

// finalize closes out the turn: build and publish the final message,
// record changed files, and wait for background work.
func (e *Engine) finalize(ctx context.Context, status agent.TurnStatus, turnErr error) *agent.TurnResult {
	defer e.background.Wait()

	iterations := e.state.Current
	if iterations > e.state.Max {
		// Exhaustion is detected one increment past the budget.
		iterations = e.state.Max
	}
	result := &agent.TurnResult{
		Status:       status,
		FilesChanged: e.filesChanged,
		Iterations:   iterations,
		Error:        turnErr,
		TokensUsed:   e.usage,
	}
	if e.lc.IsSubAgent() {
		result.FinalMessage = e.subAgentFindings()
		return result
	}

	flushCtx := context.WithoutCancel(ctx)
	if status == agent.TurnStatusCancelled {
		// No closeout ladder for a cancelled turn: what streamed,
		// streamed. Just make sure no spinner is left behind.
		e.post(flushCtx, events.HideThinkingPayload{})
		e.publishFilesChanged(flushCtx)
		return result
	}

	explanation, addsContent := e.buildFinalMessage(ctx, status)
	final := explanation
	if n := len(e.filesChanged); n > 0 {
		final = fmt.Sprintf("**%d file%s modified**", n, pluralS(n))
		if explanation != "" {
			final += "\n\n" + explanation
		}
	}
	result.FinalMessage = final
	// The final message is persisted unconditionally so a reload shows
	// the closing summary and the files-modified header; the live event
	// fires only when the text was not already streamed.
	if final != "" {
		e.persistAssistant(flushCtx, final, nil)
	}
	if addsContent {
		e.post(flushCtx, events.FinalMessagePayload{Content: final, FilesModified: len(e.filesChanged)})
	}
	e.publishFilesChanged(flushCtx)
	return result
}

// publishFilesChanged emits the changes panel update once per turn.
func (e *Engine) publishFilesChanged(ctx context.Context) {
	if len(e.filesChanged) == 0 {
		return
	}
	items := make([]events.FileChangeItem, 0, len(e.filesChanged))
	for _, path := range e.filesChanged {
		items = append(items, events.FileChangeItem{Path: path, Action: "modified"})
	}
	e.emit(ctx, events.FilesChangedPayload{Files: items})
}

// chatRequest assembles a request against the current model and budget.
// Utility calls (compaction, summaries, titles) disable thinking: they
// need a terse answer, not a reasoning trace.
func (e *Engine) chatRequest(msgs []agent.ConversationMessage, utility bool) *agent.ChatRequest {
	req := &agent.ChatRequest{
		Model:    e.lc.Model,
		Messages: msgs,
		Think:    e.think,
		Options: agent.ChatOptions{
			Temperature: e.temperature,
			NumPredict:  e.numPredict,
			NumCtx:      e.budgeter.NumCtx(budget.EstimateTokens(msgs)),
			Stop:        e.stop,
		},
		KeepAlive: e.keepAlive,
	}
	if utility && e.think != nil {
		req.Think = config.BoolPtr(false)
	}
	return req
}

// persistThinking records the completed thinking block on the timeline.
// The streamed deltas are transient; this is the durable copy.
func (e *Engine) persistThinking(ctx context.Context, res *StreamResult) {
	if res == nil || strings.TrimSpace(res.Thinking) == "" {
		return
	}
	e.emit(ctx, events.ThinkingBlockPayload{Content: res.Thinking, DurationMs: res.ThinkingMs})
}

// rememberText accumulates an iteration's visible text and thinking for
// the closeout ladder.
func (e *Engine) rememberText(response, thinking string) {
	if clean := StripSentinel(response); clean != "" {
		e.streamedText = append(e.streamedText, clean)
	}
	if t := strings.TrimSpace(thinking); t != "" {
		e.thinkingLog = append(e.thinkingLog, tailChars(t, subAgentThinkingCap))
		e.thinkingLog = lastN(e.thinkingLog, 8)
	}
}

// addContinuation appends a continuation user message and mirrors it to
// the message log.
func (e *Engine) addContinuation(ctx context.Context, text string) {
	e.history.AddContinuation(text)
	e.appendRow(ctx, services.AppendMessageInput{Role: agent.RoleUser, Content: text})
}

// addSystemNote appends an ephemeral note (wrapped in the system-note
// prefix by the history) and mirrors the wrapped form to the log.
func (e *Engine) addSystemNote(ctx context.Context, text string) {
	e.history.AddSystemNote(text)
	e.persistLastHistoryRow(ctx)
}

func (e *Engine) persistLastHistoryRow(ctx context.Context) {
	msgs := e.history.Messages()
	if len(msgs) == 0 {
		return
	}
	last := msgs[len(msgs)-1]
	e.appendRow(ctx, services.AppendMessageInput{Role: last.Role, Content: last.Content})
}

func (e *Engine) persistAssistant(ctx context.Context, content string, calls []agent.ToolCall) {
	input := services.AppendMessageInput{Role: agent.RoleAssistant, Content: content, Model: e.lc.Model}
	if len(calls) > 0 {
		wire := make([]map[string]interface{}, 0, len(calls))
		for _, c := range calls {
			wire = append(wire, map[string]interface{}{"name": c.Name, "args": c.Args})
		}
		input.ToolCalls = wire
	}
	e.appendRow(ctx, input)
}

// appendRow mirrors one conversation message to the session log.
// Sub-agents run with a nil service bundle and skip persistence
// entirely; their transcript is discarded with them.
func (e *Engine) appendRow(ctx context.Context, input services.AppendMessageInput) {
	if e.lc.Services == nil || e.lc.Services.Message == nil {
		return
	}
	input.SessionID = e.lc.SessionID
	if _, err := e.lc.Services.Message.AppendMessage(ctx, input); err != nil {
		e.log.Warn("Failed to persist conversation message", "role", input.Role, "error", err)
	}
}

// seedHistory replays the session's earlier turns so a follow-up task
// sees what came before. The freshly built system prompt stays; notes
// from finished turns are dropped as stale; an oversized backlog is
// compacted before the first request rather than after it overflows.
func (e *Engine) seedHistory(ctx context.Context) {
	if e.lc.IsSubAgent() || e.lc.Services == nil || e.lc.Services.Message == nil {
		return
	}
	rows, err := e.lc.Services.Message.History(ctx, e.lc.SessionID)
	if err != nil {
		e.log.Warn("Failed to load prior conversation; starting fresh", "error", err)
		return
	}
	if len(rows) == 0 {
		return
	}
	prior := make([]agent.ConversationMessage, 0, len(rows))
	for _, row := range rows {
		msg := agent.ConversationMessage{
			Role:    string(row.Role),
			Content: row.Content,
		}
		if row.ToolName != nil {
			msg.ToolName = *row.ToolName
		}
		for _, tc := range row.ToolCalls {
			name, _ := tc["name"].(string)
			if name == "" {
				continue
			}
			args, _ := tc["args"].(map[string]interface{})
			msg.ToolCalls = append(msg.ToolCalls, agent.ToolCall{Name: name, Args: args})
		}
		prior = append(prior, msg)
	}
	e.history.SeedPrior(prior)
	e.history.CleanStaleSystemNotes()

	prompt := e.budgeter.PromptTokens(budget.EstimateTokens(e.history.Messages()))
	if e.budgeter.ShouldCompact(prompt) {
		if _, err := e.compactHistory(ctx); err != nil {
			e.log.Warn("Could not compact reloaded history", "error", err)
		}
	}
}

func (e *Engine) loadMemory(ctx context.Context) {
	if e.lc.IsSubAgent() || e.lc.Services == nil || e.lc.Services.Memory == nil {
		return
	}
	var m agent.SessionMemory
	if err := e.lc.Services.Memory.LoadMemory(ctx, e.lc.SessionID, &m); err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			e.log.Warn("Failed to load session memory", "error", err)
		}
		return
	}
	if len(m.Summaries) == 0 {
		return
	}
	e.memory = &m
	e.history.UpdateSystemPrompt(e.memory.InjectReminder)
}

func (e *Engine) saveMemory(ctx context.Context) {
	if e.lc.IsSubAgent() || e.lc.Services == nil || e.lc.Services.Memory == nil {
		return
	}
	if err := e.lc.Services.Memory.SaveMemory(ctx, e.lc.SessionID, e.memory); err != nil {
		e.log.Warn("Failed to save session memory", "error", err)
	}
}

func (e *Engine) emit(ctx context.Context, ev events.Event) {
	if err := e.lc.Bus.Emit(ctx, ev); err != nil {
		e.log.Warn("Failed to emit event", "type", ev.EventType(), "error", err)
	}
}

func (e *Engine) post(ctx context.Context, ev events.Event) {
	if err := e.lc.Bus.Post(ctx, ev); err != nil {
		e.log.Warn("Failed to post event", "type", ev.EventType(), "error", err)
	}
}

// dedupThinkingEcho drops a response that merely repeats the thinking
// channel. Some chat templates bleed the reasoning into content; showing
// it twice reads like a stutter.
func dedupThinkingEcho(response, thinking string) string {
	r := strings.TrimSpace(response)
	t := strings.TrimSpace(thinking)
	if r == "" || len(t) < 40 {
		return response
	}
	if r == t {
		return ""
	}
	if strings.HasPrefix(r, t) {
		return strings.TrimSpace(r[len(t):])
	}
	return response
}

// batchDigest is the one-line outcome summary embedded in the control
// packet.
func batchDigest(batch *dispatch.BatchResult) string {
	failed := batch.FailedCount()
	if failed == 0 {
		return fmt.Sprintf("%d tool call(s) succeeded", len(batch.Results))
	}
	return fmt.Sprintf("%d tool call(s): %d ok, %d failed", len(batch.Results), len(batch.Results)-failed, failed)
}

func uniqueToolNames(calls []agent.ToolCall) []string {
	seen := make(map[string]bool, len(calls))
	var names []string
	for _, c := range calls {
		if !seen[c.Name] {
			seen[c.Name] = true
			names = append(names, c.Name)
		}
	}
	return names
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func pluralS(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
