package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendNoteAccumulates(t *testing.T) {
	var s Signal
	s.AppendNote(NoteATRZero)
	s.AppendNote(NoteNonPositiveStop)
	s.AppendNote("")

	assert.Equal(t, "atr_zero;non_positive_stop", s.Note)
	assert.True(t, s.HasNote(NoteATRZero))
	assert.True(t, s.HasNote(NoteNonPositiveStop))
	assert.False(t, s.HasNote(NoteSkippedOpenTrade))
}

func TestHasNoteMatchesWholeTokens(t *testing.T) {
	s := Signal{Note: "atr_zero;skipped_open_trade"}
	assert.True(t, s.HasNote("skipped_open_trade"))
	assert.False(t, s.HasNote("atr"))
	assert.False(t, s.HasNote("zero"))
}
