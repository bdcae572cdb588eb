package agent

// CompletionSentinel is the only token (besides an agent_control packet
// with state "complete") that ends the loop. Matched case-insensitively,
// in content or thinking. Loose phrases like "the task is complete" are
// deliberately not accepted — models use them to escape early.
const CompletionSentinel = "[TASK_COMPLETE]"

// DenialHint is fed back verbatim as the result of a skipped action.
// Without it the model re-attempts the denied call immediately.
const DenialHint = "[SYSTEM NOTE: This action was denied by the user. Do NOT re-attempt the same call.]"

// MaxTaskSize is the maximum allowed size for a user turn (1 MB).
// Turns exceeding it are rejected at API submission time (HTTP 413).
const MaxTaskSize = 1 * 1024 * 1024
