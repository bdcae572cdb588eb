package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/kiln-dev/kiln/pkg/agent"
)

// A grandchild that survives the kill and inherits the output pipe can
// keep Wait blocked; WaitDelay forces Wait to return anyway.
const commandWaitDelay = 5 * time.Second

// ExecCommand runs command through `sh -c` in the workspace root.
// Stdout and stderr are interleaved into one output stream. A nonzero
// exit or an expired timeout is reported in the result, not as an
// error; errors are reserved for cancellation and failures to run the
// shell at all.
func (h *LocalHost) ExecCommand(ctx context.Context, command string, timeout time.Duration) (*agent.CommandResult, error) {
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, "sh", "-c", command)
	cmd.Dir = h.root
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	// Run the shell in its own process group and kill the whole group on
	// timeout. Killing only the shell leaves its children holding the
	// output pipe, which stalls Wait until WaitDelay expires.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = commandWaitDelay

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &agent.CommandResult{
		Command: command,
		Output:  buf.String(),
		Elapsed: elapsed,
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.ExitCode = -1
		return res, nil
	}
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return nil, fmt.Errorf("run command: %w", runErr)
	}
	return res, nil
}
