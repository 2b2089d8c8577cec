package config

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "docapi.yml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\n"), 0644))

	var calls atomic.Int32
	interrupt := make(chan uint8, 1)
	done := make(chan error, 1)
	go func() { done <- Watch(file, func() { calls.Add(1) }, interrupt) }()

	// other files in the directory are ignored
	assert.Never(t, func() bool {
		os.WriteFile(filepath.Join(dir, "other.yml"), []byte("x"), 0644)
		return calls.Load() > 0
	}, 300*time.Millisecond, 50*time.Millisecond)

	assert.Eventually(t, func() bool {
		os.WriteFile(file, []byte("port: 9001\n"), 0644)
		return calls.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)

	interrupt <- 1
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not exit")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	err := Watch(filepath.Join(t.TempDir(), "missing", "docapi.yml"), func() {}, make(chan uint8))
	assert.Error(t, err)
}
