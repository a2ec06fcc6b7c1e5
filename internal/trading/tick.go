package trading

import (
	"math"

	"idx-signals/internal/errors"
	"idx-signals/internal/models"
)

// RoundDirection selects which way RoundToTick moves a price.
type RoundDirection int

const (
	RoundFloor RoundDirection = iota
	RoundCeil
)

// RoundToTick rounds price to a multiple of tick in the given direction.
func RoundToTick(price, tick float64, dir RoundDirection) (float64, error) {
	if tick <= 0 {
		return 0, errors.ErrInvalidTick
	}
	mult := price / tick
	if dir == RoundFloor {
		return math.Floor(mult) * tick, nil
	}
	return math.Ceil(mult) * tick, nil
}

// StopRounding returns the rounding direction for a stop-loss by side:
// a BUY stop floors (never tighter than unrounded), a SELL stop ceils.
func StopRounding(side models.Side) RoundDirection {
	if side == models.SideSell {
		return RoundCeil
	}
	return RoundFloor
}

// TargetRounding returns the rounding direction for a take-profit by side.
func TargetRounding(side models.Side) RoundDirection {
	if side == models.SideSell {
		return RoundFloor
	}
	return RoundCeil
}
