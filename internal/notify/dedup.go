package notify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"idx-signals/internal/errors"
	"idx-signals/internal/models"
)

// dispatchState records the last signal dispatched per symbol.
type dispatchState struct {
	LastIndex int         `json:"last_index"`
	LastSide  models.Side `json:"last_side"`
}

// Deduper wraps a Notifier and suppresses signals already dispatched.
// State is persisted to a JSON file so repeated runs over the same
// data do not re-announce old signals.
type Deduper struct {
	inner     Notifier
	statePath string

	mu    sync.Mutex
	state map[string]dispatchState
}

// NewDeduper creates a dedup wrapper persisting state to statePath.
// A missing state file starts empty.
func NewDeduper(inner Notifier, statePath string) (*Deduper, error) {
	d := &Deduper{
		inner:     inner,
		statePath: statePath,
		state:     make(map[string]dispatchState),
	}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deduper) Name() string {
	return d.inner.Name() + "+dedup"
}

// Notify forwards only signals newer than the last dispatched one for
// the symbol, then persists the updated state.
func (d *Deduper) Notify(ctx context.Context, symbol string, signals []models.Signal) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	last, seen := d.state[symbol]
	fresh := make([]models.Signal, 0, len(signals))
	for _, sig := range signals {
		if seen && (sig.Index < last.LastIndex || (sig.Index == last.LastIndex && sig.Side == last.LastSide)) {
			continue
		}
		fresh = append(fresh, sig)
	}
	if len(fresh) == 0 {
		return nil
	}

	if err := d.inner.Notify(ctx, symbol, fresh); err != nil {
		return err
	}

	newest := fresh[len(fresh)-1]
	d.state[symbol] = dispatchState{LastIndex: newest.Index, LastSide: newest.Side}
	return d.save()
}

func (d *Deduper) load() error {
	data, err := os.ReadFile(d.statePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "reading dispatch state")
	}
	if err := json.Unmarshal(data, &d.state); err != nil {
		return errors.Wrap(err, "parsing dispatch state")
	}
	return nil
}

func (d *Deduper) save() error {
	data, err := json.MarshalIndent(d.state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding dispatch state")
	}
	if dir := filepath.Dir(d.statePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating state dir")
		}
	}
	return os.WriteFile(d.statePath, data, 0o644)
}
