package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"variantsplit/internal/config"
	"variantsplit/internal/job"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_RequiresInputs(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}

func TestWatcher_ResplitsOnWrite(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "vmcache.cpp")
	require.NoError(t, os.WriteFile(in, []byte("a\n"), 0644))

	runner, err := job.NewRunner(config.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)

	results := make(chan job.Result, 4)
	w, err := New([]string{in}, runner.Run,
		WithDebounce(20*time.Millisecond),
		WithLogger(zap.NewNop()),
		OnResult(func(r job.Result) {
			select {
			case results <- r:
			default:
			}
		}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	require.NoError(t, os.WriteFile(in, []byte("a\n#ifdef OSV\nb\n#endif\n"), 0644))

	select {
	case res := <-results:
		require.NoError(t, res.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for re-split")
	}

	linux, err := os.ReadFile(filepath.Join(dir, "cleaned_code_linux.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(linux))
	osv, err := os.ReadFile(filepath.Join(dir, "cleaned_code_osv.cpp"))
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(osv))

	stats := w.GetStats()
	assert.GreaterOrEqual(t, stats.Runs, 1)
	assert.Equal(t, in, stats.LastRunPath)
}

func TestWatcher_IgnoresOtherFilesAndKeepsRunningAfterFailure(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.cpp")
	require.NoError(t, os.WriteFile(in, []byte("x\n"), 0644))

	var calls atomic.Int32
	split := func(ctx context.Context, input string) (job.Result, error) {
		n := calls.Add(1)
		if n == 1 {
			err := errors.New("broken")
			return job.Result{Input: input, Err: err}, err
		}
		return job.Result{Input: input}, nil
	}

	w, err := New([]string{in}, split, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("z"), 0644))
	require.NoError(t, os.WriteFile(in, []byte("y\n"), 0644))
	require.Eventually(t, func() bool { return w.GetStats().Failures == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, "broken", w.GetStats().LastError)

	require.NoError(t, os.WriteFile(in, []byte("z\n"), 0644))
	require.Eventually(t, func() bool { return w.GetStats().Runs == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Empty(t, w.GetStats().LastError)
	assert.EqualValues(t, 2, calls.Load())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	w, err := New([]string{"a.cpp"}, nil)
	require.NoError(t, err)
	w.Stop()
}

func TestWatcher_StopAfterContextCancel(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.cpp")
	w, err := New([]string{in}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx), "second Start is a no-op")
	cancel()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return")
	}
}
