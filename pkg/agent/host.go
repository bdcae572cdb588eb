package agent

import (
	"context"
	"time"
)

// HostEnvironment abstracts the workspace the agent operates on:
// filesystem access, command execution, and language diagnostics.
// Implemented by host.LocalHost; kept as an interface so loop and
// dispatcher tests can run against an in-memory workspace.
type HostEnvironment interface {
	// WorkspaceRoot returns the absolute path of the workspace.
	WorkspaceRoot() string

	// AsRelativePath renders an absolute path relative to the
	// workspace root. Paths outside the workspace are returned as-is.
	AsRelativePath(path string) string

	// ActiveEditorPath returns the file the user last focused, or ""
	// when unknown. Used for prompt context only.
	ActiveEditorPath() string

	ReadFile(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path string, content string) error
	Stat(ctx context.Context, path string) (*FileStat, error)
	ListDir(ctx context.Context, path string) ([]DirEntry, error)

	// DeletePath removes a file, or a directory and its contents.
	DeletePath(ctx context.Context, path string) error

	// ExecCommand runs a shell command in the workspace. The timeout
	// bounds execution; expired commands return a CommandResult with
	// TimedOut set rather than an error.
	ExecCommand(ctx context.Context, command string, timeout time.Duration) (*CommandResult, error)

	// WaitForDiagnostics blocks until diagnostics for the path settle
	// or the timeout elapses, then returns whatever is known.
	WaitForDiagnostics(ctx context.Context, path string, timeout time.Duration) ([]Diagnostic, error)

	// ErrorDiagnostics returns the currently-known error-severity
	// diagnostics for the path without waiting.
	ErrorDiagnostics(path string) []Diagnostic
}

// ExternalChangeSource is an optional HostEnvironment capability.
// Hosts that watch the workspace report files modified outside the
// session; the loop drains the accumulated paths once per iteration.
type ExternalChangeSource interface {
	DrainExternalChanges() []string
}

// FileStat is the subset of file metadata the agent consumes.
type FileStat struct {
	Size    int64
	MtimeMs int64
	IsDir   bool
}

// DirEntry is a single child of a listed directory.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64
}

// DiagnosticSeverity grades a diagnostic finding.
type DiagnosticSeverity string

const (
	DiagnosticError   DiagnosticSeverity = "error"
	DiagnosticWarning DiagnosticSeverity = "warning"
)

// Diagnostic is a single analyzer finding for a file.
type Diagnostic struct {
	Path     string
	Line     int
	Severity DiagnosticSeverity
	Message  string
}

// CommandResult is the outcome of a terminal command execution.
type CommandResult struct {
	Command  string
	Output   string // combined stdout and stderr
	ExitCode int
	TimedOut bool
	Elapsed  time.Duration
}
