// Package review implements the SM-2 spaced repetition algorithm used to
// schedule knowledge card reviews.
package review

import (
	"math"
	"time"
)

const (
	// MinEaseFactor is the floor below which the ease factor never drops.
	MinEaseFactor = 1.3

	// DefaultEaseFactor is the ease a brand-new card starts with.
	DefaultEaseFactor = 2.5
)

// State is the scheduling state of one card.
type State struct {
	EaseFactor   float64
	IntervalDays int
	Repetitions  int
	NextReview   time.Time
}

// NewState is the initial state for a freshly generated card: due immediately.
func NewState(now time.Time) State {
	return State{
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 1,
		Repetitions:  0,
		NextReview:   now,
	}
}

// Apply advances a card's scheduling state from one review with quality
// rating q (0-5, clamped). Quality below 3 is a lapse: repetitions reset and
// the card comes back tomorrow, though the ease penalty still applies.
func Apply(s State, quality int, now time.Time) State {
	if quality < 0 {
		quality = 0
	}
	if quality > 5 {
		quality = 5
	}

	q := float64(quality)
	ease := s.EaseFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	next := State{EaseFactor: ease}
	if quality < 3 {
		next.Repetitions = 0
		next.IntervalDays = 1
	} else {
		switch s.Repetitions {
		case 0:
			next.IntervalDays = 1
		case 1:
			next.IntervalDays = 3
		default:
			next.IntervalDays = int(math.Round(float64(s.IntervalDays) * ease))
		}
		next.Repetitions = s.Repetitions + 1
	}
	next.NextReview = now.AddDate(0, 0, next.IntervalDays)
	return next
}

// Maturity classification thresholds. A card is "learning" until its interval
// exceeds a week, after which it counts as mature.
const matureIntervalDays = 7

// IsNew reports whether the card has never been successfully reviewed.
func IsNew(s State) bool { return s.Repetitions == 0 }

// IsMature reports whether the card has graduated past the learning phase.
func IsMature(s State) bool {
	return s.Repetitions > 0 && s.IntervalDays > matureIntervalDays
}

// IsLearning reports whether the card is reviewed but not yet mature.
func IsLearning(s State) bool {
	return s.Repetitions > 0 && s.IntervalDays <= matureIntervalDays
}
