// Package boost computes the time-decayed popularity score of an item from
// its pin history. Each pin is worth BasePoints on the day it is created and
// decays with age; the item score is the rounded sum over all active pins.
package boost

import (
	"math"
	"time"
)

const (
	BasePoints = 10.0
	DecayRate  = 0.1
)

// Contribution returns the decayed value of a single pin:
// BasePoints / (1 + daysOld*DecayRate), where daysOld is the floor of whole
// days elapsed in UTC. A pin from the future contributes as if created now.
func Contribution(pinnedAt, now time.Time) float64 {
	days := int(now.UTC().Sub(pinnedAt.UTC()).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return BasePoints / (1 + float64(days)*DecayRate)
}

// Score sums the contributions of all pins, rounded to 2 decimal places.
func Score(pinTimes []time.Time, now time.Time) float64 {
	total := 0.0
	for _, t := range pinTimes {
		total += Contribution(t, now)
	}
	return math.Round(total*100) / 100
}
