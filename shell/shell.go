// Package shell runs external conversion engines (LibreOffice, Ghostscript,
// poppler, rembg) as bounded subprocesses.
//
// Every invocation gets its own deadline. When the deadline expires the whole
// process group is killed and ErrTimeout is returned; when the caller's
// context is canceled the process is killed and the context error is
// returned. Non-zero exits are reported as *ExitError carrying the combined
// output of the tool.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/yaoapp/kun/log"
)

// DefaultTimeout bounds a single engine invocation when none is configured
const DefaultTimeout = 2 * time.Minute

// ErrTimeout is returned when an engine does not finish within its deadline
var ErrTimeout = errors.New("conversion timeout")

// ErrNotFound is returned when the engine binary cannot be resolved
var ErrNotFound = errors.New("engine not found")

// TimeoutError describes an engine killed after its deadline
type TimeoutError struct {
	Tool    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not finish within %s", e.Tool, e.Timeout)
}

// Is reports ErrTimeout as the sentinel for every TimeoutError
func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

// ExitError describes an engine that exited with a non-zero status
type ExitError struct {
	Tool   string
	Code   int
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Tool, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Command a single engine invocation
type Command struct {
	Tool string   // Display name used in errors and logs
	Path string   // Executable name or absolute path
	Args []string // Arguments
	Dir  string   // Working directory (optional)
	Env  []string // Extra environment variables (optional)
}

// Runner executes commands with a per-invocation timeout
type Runner struct {
	Timeout time.Duration
	exec    executor
	pool    *Pool
}

// New create a runner, a zero timeout falls back to DefaultTimeout
func New(timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Runner{Timeout: timeout, exec: &osExecutor{}}
}

// WithPool makes the runner wait for a worker of pool before every run
func (r *Runner) WithPool(pool *Pool) *Runner {
	r.pool = pool
	return r
}

// Available checks if the executable can be resolved
func (r *Runner) Available(path string) bool {
	if path == "" {
		return false
	}
	_, err := r.exec.LookPath(path)
	return err == nil
}

// Run executes the command and returns its combined output
func (r *Runner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	if cmd.Tool == "" {
		cmd.Tool = cmd.Path
	}

	if !r.Available(cmd.Path) {
		return nil, fmt.Errorf("%s (%s): %w", cmd.Tool, cmd.Path, ErrNotFound)
	}

	if r.pool != nil {
		if err := r.pool.Acquire(ctx); err != nil {
			return nil, err
		}
		defer r.pool.Release()
	}

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	output, err := r.exec.Run(runCtx, cmd)
	log.Trace("[Shell] %s %s (%s)", cmd.Tool, strings.Join(cmd.Args, " "), time.Since(start))
	if err == nil {
		return output, nil
	}

	// The parent context wins over the deadline: a canceled request is not a timeout
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		log.Warn("[Shell] %s killed after %s", cmd.Tool, r.Timeout)
		return nil, &TimeoutError{Tool: cmd.Tool, Timeout: r.Timeout}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, &ExitError{
			Tool:   cmd.Tool,
			Code:   exitErr.ExitCode(),
			Output: string(bytes.TrimSpace(output)),
			Err:    err,
		}
	}

	return nil, fmt.Errorf("%s: %w", cmd.Tool, err)
}

// executor abstracts process execution for testing
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, command Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command.Path, command.Args...)
	cmd.Dir = command.Dir
	if len(command.Env) > 0 {
		cmd.Env = append(cmd.Environ(), command.Env...)
	}
	killGroup(cmd)
	cmd.WaitDelay = 5 * time.Second
	return cmd.CombinedOutput()
}
