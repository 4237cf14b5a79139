// Package toolchain provides the process and filesystem collaborators used to
// run external compilers. Output parsing never happens here; callers receive
// the captured text and hand it to the listing package.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Command describes a single tool invocation.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string // appended to the current environment
}

// ExecResult is the captured outcome of a finished invocation.
type ExecResult struct {
	Code     int
	Stdout   string
	Stderr   string
	ExecTime time.Duration
	TimedOut bool
}

// Executor runs external commands.
type Executor interface {
	Exec(ctx context.Context, cmd Command) (ExecResult, error)
}

// LocalExecutor runs commands on the host with an optional timeout.
type LocalExecutor struct {
	Timeout time.Duration
}

// Exec runs cmd to completion. A non-zero exit status or a timeout is
// reported through the result, not as an error; errors mean the command
// could not be started at all.
func (e LocalExecutor) Exec(ctx context.Context, cmd Command) (ExecResult, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	// Children that inherit stdout must not hold Wait open past the deadline.
	c.WaitDelay = time.Second
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	res := ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExecTime: time.Since(start),
	}

	slog.Debug("Executed tool", "path", cmd.Path, "args", cmd.Args, "dir", cmd.Dir, "elapsed", res.ExecTime)

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.TimedOut = true
		res.Code = -1
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return res, nil
	case errors.As(err, &exitErr):
		res.Code = exitErr.ExitCode()
		return res, nil
	default:
		return res, fmt.Errorf("failed to run %s: %w", cmd.Path, err)
	}
}
