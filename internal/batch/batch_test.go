package batch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolRunsAllTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()

	var counter atomic.Int64
	for i := 0; i < 50; i++ {
		ok := pool.Submit(func() { counter.Add(1) })
		require.True(t, ok)
	}
	pool.Stop()

	assert.Equal(t, int64(50), counter.Load())
	stats := pool.Stats()
	assert.Equal(t, uint64(50), stats.TasksDone)
	assert.False(t, stats.Running)
}

func TestWorkerPoolRejectsWhenStopped(t *testing.T) {
	pool := NewWorkerPool(2)
	assert.False(t, pool.Submit(func() {}), "not started yet")

	pool.Start()
	pool.Stop()
	assert.False(t, pool.Submit(func() {}))
}

func TestScannerProcessesCSVFilesOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"reliance.csv", "tcs.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	scanner := NewScanner(2, zerolog.Nop())
	results, err := scanner.Scan(dir, func(path string) (string, error) {
		return filepath.Base(path), nil
	})
	require.NoError(t, err)

	require.Len(t, results, 2, "non-csv files are ignored")
	assert.Equal(t, "reliance.csv", results[0].Symbol)
	assert.Equal(t, "tcs.CSV", results[1].Symbol)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}
}

func TestScannerCollectsPerFileErrors(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	scanner := NewScanner(2, zerolog.Nop())
	results, err := scanner.Scan(dir, func(path string) (string, error) {
		if filepath.Base(path) == "a.csv" {
			return "A", os.ErrInvalid
		}
		return "B", nil
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.ErrorIs(t, results[0].Err, os.ErrInvalid)
	assert.NoError(t, results[1].Err)
}

func TestScannerMissingDir(t *testing.T) {
	scanner := NewScanner(1, zerolog.Nop())
	_, err := scanner.Scan(filepath.Join(t.TempDir(), "absent"), func(string) (string, error) {
		return "", nil
	})
	assert.Error(t, err)
}
