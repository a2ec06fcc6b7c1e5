// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"idx-signals/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Bars
	SaveBars(ctx context.Context, symbol string, bars []models.Bar) error
	GetBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)

	// Signals
	SaveSignals(ctx context.Context, symbol string, signals []models.Signal) error
	GetSignals(ctx context.Context, symbol string) ([]models.Signal, error)

	// Trades
	SaveTrades(ctx context.Context, symbol string, trades []models.Trade) error
	GetTrades(ctx context.Context, symbol string) ([]models.Trade, error)

	Close() error
}
