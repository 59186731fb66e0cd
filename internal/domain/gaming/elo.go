package gaming

import (
	"math"
	"strings"
)

// Outcome is a match result from the first player's point of view.
type Outcome string

const (
	Win  Outcome = "win"
	Loss Outcome = "loss"
	Draw Outcome = "draw"
)

// DefaultKFactor is used when a caller passes k <= 0.
const DefaultKFactor = 32

// ParseOutcome accepts win/loss/draw in any case.
func ParseOutcome(s string) (Outcome, bool) {
	switch o := Outcome(strings.ToLower(strings.TrimSpace(s))); o {
	case Win, Loss, Draw:
		return o, true
	}
	return "", false
}

func (o Outcome) score() float64 {
	switch o {
	case Win:
		return 1
	case Draw:
		return 0.5
	}
	return 0
}

// Opposite is the same match seen by the other player.
func (o Outcome) Opposite() Outcome {
	switch o {
	case Win:
		return Loss
	case Loss:
		return Win
	}
	return Draw
}

// ExpectedScore is the logistic probability that a beats b.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1 / (1 + math.Pow(10, float64(ratingB-ratingA)/400))
}

// EloDelta is round(k * (actual - expected)) for player A.
func EloDelta(ratingA, ratingB int, outcome Outcome, kFactor int) int {
	if kFactor <= 0 {
		kFactor = DefaultKFactor
	}
	return int(math.Round(float64(kFactor) * (outcome.score() - ExpectedScore(ratingA, ratingB))))
}

// UpdateRatings returns both players' new ratings after one match.
func UpdateRatings(ratingA, ratingB int, outcome Outcome, kFactor int) (int, int) {
	return ratingA + EloDelta(ratingA, ratingB, outcome, kFactor),
		ratingB + EloDelta(ratingB, ratingA, outcome.Opposite(), kFactor)
}
