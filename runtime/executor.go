package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"time"

	"github.com/fenceline-io/fenceline/config"
	"github.com/fenceline-io/fenceline/iox"
)

// killGracePeriod bounds how long a timed-out subprocess may linger
// after the kill signal before pipes are forcibly closed.
const killGracePeriod = 2 * time.Second

// Executor abstracts snippet execution for testing.
type Executor interface {
	Run(ctx context.Context, snippet string) (*ExecResult, error)
}

// ExecutorFactory creates an Executor for one block. Used for test injection.
type ExecutorFactory func(cfg *ExecConfig) Executor

// ExecConfig configures a single snippet execution.
type ExecConfig struct {
	// Toolchain is the language runner for this snippet.
	Toolchain config.Toolchain
	// Timeout bounds the subprocess wall-clock time.
	Timeout time.Duration
	// WorkDir is an optional shared working directory for documents with
	// sequential state dependencies. Empty means the executor creates a
	// scoped directory of its own and removes it on every exit path.
	WorkDir string
}

// ExecResult is the outcome of one snippet execution.
type ExecResult struct {
	// ExitCode is the process exit code; -1 when the process was killed.
	ExitCode int
	// Stdout is the captured standard output.
	Stdout string
	// Stderr is the captured standard error.
	Stderr string
	// Duration is the wall-clock execution time.
	Duration time.Duration
	// TimedOut is true when the deadline expired and the process was killed.
	TimedOut bool
	// Canceled is true when a top-level interrupt killed the process.
	Canceled bool
}

// SnippetExecutor runs one snippet as a self-contained program in a
// scoped working directory.
type SnippetExecutor struct {
	config *ExecConfig
}

// NewSnippetExecutor creates an executor for the given config.
func NewSnippetExecutor(cfg *ExecConfig) *SnippetExecutor {
	return &SnippetExecutor{config: cfg}
}

// Verify SnippetExecutor implements the Executor interface.
var _ Executor = (*SnippetExecutor)(nil)

// Run writes the snippet to a file inside the working directory and
// executes the toolchain against it. The directory is removed before
// returning whenever the executor owns it, including on timeout, crash,
// and cancellation paths. Launch failures return an error; timeouts and
// non-zero exits are reported in the result.
func (e *SnippetExecutor) Run(ctx context.Context, snippet string) (*ExecResult, error) {
	dir := e.config.WorkDir
	if dir == "" {
		created, err := os.MkdirTemp("", "fenceline-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create working directory: %w", err)
		}
		dir = created
		defer iox.DiscardRemove(created)
	}

	file := filepath.Join(dir, "snippet"+e.config.Toolchain.Ext)
	if err := os.WriteFile(file, []byte(snippet), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write snippet: %w", err)
	}

	runCtx := ctx
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	args := append(slices.Clone(e.config.Toolchain.Args), file)
	cmd := exec.CommandContext(runCtx, e.config.Toolchain.Command, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = killGracePeriod

	start := time.Now()
	err := cmd.Run()

	result := &ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
		ExitCode: -1,
	}

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		result.TimedOut = true
		return result, nil
	case errors.Is(ctx.Err(), context.Canceled):
		result.Canceled = true
		return result, nil
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return nil, fmt.Errorf("failed to launch %s: %w", e.config.Toolchain.Command, err)
	}

	result.ExitCode = 0
	return result, nil
}
