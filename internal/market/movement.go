package market

import (
	"errors"
	"fmt"
	"math"
)

const (
	directionUpConstant        = "🔺"
	directionDownConstant      = "🔻"
	percentageTemplateConstant = "%s%.2f%%"
)

// ErrZeroPreviousClose indicates a movement cannot be computed from a zero base.
var ErrZeroPreviousClose = errors.New("previous close is zero")

// Direction tells whether the price rose or fell.
type Direction int

// Movement directions.
const (
	DirectionDown Direction = iota
	DirectionUp
)

// Symbol returns the arrow used in alert messages.
func (direction Direction) Symbol() string {
	if direction == DirectionUp {
		return directionUpConstant
	}
	return directionDownConstant
}

// Movement is the relative change between two consecutive closes.
type Movement struct {
	Latest    float64
	Previous  float64
	Percent   float64
	Direction Direction
}

// EvaluateMovement computes the percentage change from previous to latest.
func EvaluateMovement(latest float64, previous float64) (Movement, error) {
	if previous == 0 {
		return Movement{}, ErrZeroPreviousClose
	}
	percent := (latest - previous) / previous * 100
	direction := DirectionDown
	if latest > previous {
		direction = DirectionUp
	}
	return Movement{Latest: latest, Previous: previous, Percent: percent, Direction: direction}, nil
}

// Significant reports whether the absolute change exceeds thresholdPercent.
func (movement Movement) Significant(thresholdPercent float64) bool {
	return math.Abs(movement.Percent) > thresholdPercent
}

// String renders the arrow and the absolute percentage, for example "🔺4.21%".
func (movement Movement) String() string {
	return fmt.Sprintf(percentageTemplateConstant, movement.Direction.Symbol(), math.Abs(movement.Percent))
}
