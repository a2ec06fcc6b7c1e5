// Package notify dispatches newly generated signals to output channels.
package notify

import (
	"context"

	"idx-signals/internal/models"
)

// Notifier delivers a batch of signals for one symbol.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, symbol string, signals []models.Signal) error
}
