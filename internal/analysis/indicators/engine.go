// Package indicators provides technical indicator calculations over OHLCV bars.
package indicators

import (
	"context"
	"sync"

	"idx-signals/internal/models"
)

// Indicator defines the interface for single-value technical indicators.
type Indicator interface {
	Name() string
	Calculate(bars []models.Bar) ([]float64, error)
	Period() int
}

// MultiValueIndicator defines the interface for indicators that return
// multiple named series.
type MultiValueIndicator interface {
	Name() string
	Calculate(bars []models.Bar) (map[string][]float64, error)
	Period() int
}

// Engine computes indicator series for one instrument's bar sequence and
// memoizes the results. Cache entries are keyed by the indicator name
// (which encodes kind and parameters) and are write-once-then-immutable;
// Compute with force invalidates exactly one key.
type Engine struct {
	bars []models.Bar

	mu         sync.RWMutex
	cache      map[string][]float64
	multiCache map[string]map[string][]float64
}

// NewEngine creates an engine over an immutable bar sequence.
func NewEngine(bars []models.Bar) *Engine {
	return &Engine{
		bars:       bars,
		cache:      make(map[string][]float64),
		multiCache: make(map[string]map[string][]float64),
	}
}

// Bars returns the underlying bar sequence.
func (e *Engine) Bars() []models.Bar {
	return e.bars
}

// Compute returns the memoized series for ind, calculating it on first use.
// force recomputes and replaces the cached entry.
func (e *Engine) Compute(ind Indicator, force bool) ([]float64, error) {
	key := ind.Name()

	if !force {
		e.mu.RLock()
		values, ok := e.cache[key]
		e.mu.RUnlock()
		if ok {
			return values, nil
		}
	}

	values, err := ind.Calculate(e.bars)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[key] = values
	e.mu.Unlock()
	return values, nil
}

// ComputeMulti is Compute for multi-value indicators.
func (e *Engine) ComputeMulti(ind MultiValueIndicator, force bool) (map[string][]float64, error) {
	key := ind.Name()

	if !force {
		e.mu.RLock()
		values, ok := e.multiCache[key]
		e.mu.RUnlock()
		if ok {
			return values, nil
		}
	}

	values, err := ind.Calculate(e.bars)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.multiCache[key] = values
	e.mu.Unlock()
	return values, nil
}

// Invalidate drops a single cached entry by name.
func (e *Engine) Invalidate(name string) {
	e.mu.Lock()
	delete(e.cache, name)
	delete(e.multiCache, name)
	e.mu.Unlock()
}

// Cached reports whether a series is already memoized under name.
func (e *Engine) Cached(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.cache[name]
	if !ok {
		_, ok = e.multiCache[name]
	}
	return ok
}

// ComputeAll calculates the given indicators in parallel with a small worker
// pool and memoizes each result. Per-indicator errors are returned keyed by
// indicator name; successful series are cached regardless.
func (e *Engine) ComputeAll(ctx context.Context, inds []Indicator, workers int) (map[string][]float64, map[string]error) {
	if workers <= 0 {
		workers = 4
	}

	results := make(map[string][]float64, len(inds))
	errs := make(map[string]error)
	var mu sync.Mutex
	var wg sync.WaitGroup

	work := make(chan Indicator, len(inds))

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range work {
				select {
				case <-ctx.Done():
					return
				default:
					values, err := e.Compute(ind, false)
					mu.Lock()
					if err != nil {
						errs[ind.Name()] = err
					} else {
						results[ind.Name()] = values
					}
					mu.Unlock()
				}
			}
		}()
	}

	for _, ind := range inds {
		work <- ind
	}
	close(work)

	wg.Wait()
	return results, errs
}
