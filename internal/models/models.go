// Package models provides domain models for the signal engine.
package models

import (
	"time"
)

// Side represents the direction of a signal or trade.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// EntrySource selects how a signal's entry price is resolved.
type EntrySource string

const (
	EntryClose    EntrySource = "close"
	EntryNextOpen EntrySource = "next_open"
)

// CloseReason records why a trade was closed.
type CloseReason string

const (
	CloseTakeProfit CloseReason = "tp"
	CloseStopLoss   CloseReason = "sl"
	CloseEndOfData  CloseReason = "end_of_data"
)

// SignalMode restricts which directions the generator may emit.
type SignalMode string

const (
	ModeBuyOnly SignalMode = "buy_only"
	ModeBoth    SignalMode = "both"
)

// Bar represents one OHLCV sample for a fixed time interval.
// Bars are immutable once ingested; sequences are ordered by strictly
// increasing timestamp with no duplicates per instrument.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}
