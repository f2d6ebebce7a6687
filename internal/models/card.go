package models

import "time"

// Card types from the closed set the card generator emits.
const (
	CardConcept     = "concept"
	CardRule        = "rule"
	CardCaseHolding = "case_holding"
	CardElementList = "element_list"
)

// ReviewCard is one spaced-repetition card over a single atomic fact.
// ease_factor never drops below 1.3.
type ReviewCard struct {
	ID           string     `json:"id"`
	UserID       string     `json:"-"`
	ChunkID      string     `json:"chunk_id"`
	Subject      string     `json:"subject"`
	Topic        string     `json:"topic"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	CardType     string     `json:"card_type"`
	EaseFactor   float64    `json:"ease_factor"`
	IntervalDays int        `json:"interval_days"`
	Repetitions  int        `json:"repetitions"`
	NextReview   time.Time  `json:"next_review"`
	LastReviewed *time.Time `json:"last_reviewed"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CardStats partitions a learner's cards: new (never passed), learning
// (interval within a week), mature (beyond a week).
type CardStats struct {
	Total    int `json:"total"`
	Due      int `json:"due"`
	New      int `json:"new"`
	Learning int `json:"learning"`
	Mature   int `json:"mature"`
}
