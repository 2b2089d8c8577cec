package shell

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh is not available on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found")
	}
}

func TestRun(t *testing.T) {
	requireShell(t)
	runner := New(5 * time.Second)

	output, err := runner.Run(context.Background(), Command{Tool: "sh", Path: "sh", Args: []string{"-c", "echo hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(output))
}

func TestRunExitError(t *testing.T) {
	requireShell(t)
	runner := New(5 * time.Second)

	_, err := runner.Run(context.Background(), Command{Tool: "sh", Path: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "boom", exitErr.Output)
	assert.Equal(t, "sh exited with code 3", exitErr.Error())
}

func TestRunTimeout(t *testing.T) {
	requireShell(t)
	runner := New(100 * time.Millisecond)

	start := time.Now()
	_, err := runner.Run(context.Background(), Command{Tool: "sleeper", Path: "sh", Args: []string{"-c", "sleep 10"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Less(t, time.Since(start), 8*time.Second)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, "sleeper", timeoutErr.Tool)
}

func TestRunCanceled(t *testing.T) {
	requireShell(t)
	runner := New(10 * time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	_, err := runner.Run(ctx, Command{Path: "sh", Args: []string{"-c", "sleep 10"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestRunNotFound(t *testing.T) {
	runner := New(0)
	assert.Equal(t, DefaultTimeout, runner.Timeout)

	_, err := runner.Run(context.Background(), Command{Tool: "ghost", Path: "definitely-not-a-real-binary-4711"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestInspect(t *testing.T) {
	requireShell(t)
	status := Inspect(
		Tool{Name: "sh"},
		Tool{Name: "ghost", Path: "definitely-not-a-real-binary-4711", ConfigKey: "tools.ghost"},
	)

	require.Len(t, status, 2)
	assert.True(t, status["sh"].Available)
	assert.NotEmpty(t, status["sh"].Path)

	assert.False(t, status["ghost"].Available)
	assert.Equal(t, "tools.ghost", status["ghost"].ConfigKey)
	assert.Contains(t, status["ghost"].Error, "not found")
}
