package commands

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leapstack-labs/wordgen/internal/cli/config"
	clitestutil "github.com/leapstack-labs/wordgen/internal/cli/testutil"
	"github.com/leapstack-labs/wordgen/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFile_CallsOnChange(t *testing.T) {
	dir := testutil.SetupProject(t)
	path := filepath.Join(dir, "cv.yaml")
	other := filepath.Join(dir, "other.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, testutil.NewTestLogger(t), func() { calls.Add(1) })
	}()

	// give the watcher time to register
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	time.Sleep(3 * watchDebounce)
	assert.Zero(t, calls.Load(), "changes to other files are ignored")

	// a burst of writes is debounced into one call
	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte(testutil.CVGrammar), 0o600))
	}
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not stop after cancel")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "nope", "g.yaml"),
		testutil.NewTestLogger(t), func() {})
	require.Error(t, err)
}

func newWatchContext(t *testing.T) (*CommandContext, *clitestutil.TestRenderer) {
	t.Helper()
	tr := clitestutil.NewTestRendererMarkdown()
	cfg := config.Default()
	cfg.Seed = 11
	return &CommandContext{Cfg: cfg, Logger: testutil.NewTestLogger(t), Renderer: tr.Renderer}, tr
}

func TestWatchIteration(t *testing.T) {
	dir := testutil.SetupProject(t)
	cmdCtx, tr := newWatchContext(t)

	require.NoError(t, watchIteration(context.Background(), cmdCtx, filepath.Join(dir, "cv.yaml"), false))
	assert.Len(t, clitestutil.Lines(tr.Output()), 6)
	assert.Contains(t, tr.ErrorOutput(), "cv.yaml (seed 11)")
}

func TestWatchIteration_CheckErrorsBlockGeneration(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "bad.yaml", "pattern: \"{A}\"\ndefinitions:\n  - A: \"a{A}\"\n")
	cmdCtx, tr := newWatchContext(t)

	err := watchIteration(context.Background(), cmdCtx, path, false)
	require.ErrorIs(t, err, ErrCheckFailed)
	assert.Contains(t, tr.ErrorOutput(), "WG03")
	assert.Empty(t, tr.Output())
}
