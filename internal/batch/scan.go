package batch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// FileResult is the outcome of processing one bar file.
type FileResult struct {
	Path   string
	Symbol string
	Err    error
}

// ProcessFunc runs the pipeline for one bar file and returns its symbol.
type ProcessFunc func(path string) (string, error)

// Scanner walks a directory of bar files and processes each through a
// worker pool. Results are returned in path order regardless of
// completion order.
type Scanner struct {
	pool   *WorkerPool
	logger zerolog.Logger
}

// NewScanner creates a scanner with the given concurrency.
func NewScanner(workers int, logger zerolog.Logger) *Scanner {
	return &Scanner{pool: NewWorkerPool(workers), logger: logger}
}

// Scan processes every .csv file directly under dir.
func (s *Scanner) Scan(dir string, process ProcessFunc) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	results := make([]FileResult, len(paths))
	var wg sync.WaitGroup

	s.pool.Start()
	defer s.pool.Stop()

	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		ok := s.pool.Submit(func() {
			defer wg.Done()
			symbol, err := process(path)
			results[i] = FileResult{Path: path, Symbol: symbol, Err: err}
			if err != nil {
				s.logger.Error().Err(err).Str("path", path).Msg("bar file failed")
			}
		})
		if !ok {
			wg.Done()
			results[i] = FileResult{Path: path, Err: os.ErrClosed}
		}
	}
	wg.Wait()

	return results, nil
}
