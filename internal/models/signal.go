package models

import (
	"strings"
	"time"
)

// Annotation notes attached to signals by downstream stages. Notes explain
// degraded computations; they are appended, never overwritten.
const (
	NoteATRZero              = "atr_zero"
	NoteNonPositiveStop      = "non_positive_stop"
	NoteSkippedOpenTrade     = "skipped_open_trade"
	NoteInsufficientATR      = "insufficient_data_for_atr"
	NoteCannotUseNextOpen    = "cannot_use_next_open"
	NoteInsufficientBlocking = "insufficient_data_blocking"
)

// Signal is a directional trade signal anchored to a bar index.
// The detection fields (Index, Side, Timestamp) are immutable once emitted;
// the pointer fields are filled in later by entry resolution and SL/TP
// sizing, and Note accumulates diagnostics.
type Signal struct {
	Index     int
	Side      Side
	Timestamp time.Time
	Note      string

	EntryPrice *float64
	ATRValue   *float64
	SLPrice    *float64
	TPPrice    *float64
	RoundedSL  *float64
	RoundedTP  *float64
}

// AppendNote adds a diagnostic note, preserving any existing notes.
func (s *Signal) AppendNote(note string) {
	if note == "" {
		return
	}
	if s.Note == "" {
		s.Note = note
		return
	}
	s.Note = s.Note + ";" + note
}

// HasNote reports whether the signal carries the given note.
func (s *Signal) HasNote(note string) bool {
	for _, n := range strings.Split(s.Note, ";") {
		if n == note {
			return true
		}
	}
	return false
}

// Trade is the outcome of an accepted signal replayed against history.
// It is terminal once ExitIndex is assigned.
type Trade struct {
	Side       Side
	EntryIndex int
	EntryTime  time.Time
	EntryPrice float64
	ExitIndex  int
	ExitTime   time.Time
	ExitPrice  float64
	StopLoss   float64
	TakeProfit float64
	ATRAtEntry float64
	PnL        float64
	Reason     CloseReason
}
