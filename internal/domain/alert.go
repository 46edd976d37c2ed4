package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction int

const (
	Above Direction = iota
	Below
)

func (d Direction) String() string {
	if d == Below {
		return "below"
	}
	return "above"
}

// Condition is a user's standing instruction to be notified when a
// symbol's price crosses TargetPrice in the given direction. It fires
// at most once and is removed the moment it does.
type Condition struct {
	OwnerID     int64
	Symbol      string
	TargetPrice decimal.Decimal
	Direction   Direction
	CreatedAt   time.Time
}

// FiredAlert is a condition that crossed its threshold, together with
// the price that triggered it.
type FiredAlert struct {
	OwnerID       int64
	Symbol        string
	TargetPrice   decimal.Decimal
	Direction     Direction
	ObservedPrice decimal.Decimal
}
