// Package trading turns signals into sized, tick-aligned trades and replays
// them against historical bars.
package trading

import (
	"idx-signals/internal/errors"
	"idx-signals/internal/models"
)

// ResolveEntry maps a signal's bar index to a concrete entry price.
// EntryClose uses the close of the signal bar; EntryNextOpen uses the open
// of the following bar and fails with ErrNoNextBar at the end of history.
func ResolveEntry(bars []models.Bar, index int, source models.EntrySource) (float64, error) {
	if index < 0 || index >= len(bars) {
		return 0, errors.ErrIndexOutOfRange
	}

	switch source {
	case models.EntryClose:
		return bars[index].Close, nil
	case models.EntryNextOpen:
		if index+1 >= len(bars) {
			return 0, errors.ErrNoNextBar
		}
		return bars[index+1].Open, nil
	default:
		return 0, errors.NewValidationError("entry_price_source", string(source), "must be close or next_open")
	}
}

// entryBarIndex is the bar the entry price belongs to. Forward scanning for
// exits starts strictly after this bar.
func entryBarIndex(index int, source models.EntrySource) int {
	if source == models.EntryNextOpen {
		return index + 1
	}
	return index
}
