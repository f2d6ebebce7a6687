package models

import "time"

// Bonus types on ledger entries.
const (
	BonusStreak    = "streak"
	BonusRandom    = "random_bonus"
	BonusFirstTime = "first_time"
)

// LedgerEntry is one row of the append-only point ledger. The balance is
// always SUM(amount) over a learner's rows, never a stored field.
type LedgerEntry struct {
	ID           string         `json:"id"`
	UserID       string         `json:"-"`
	Amount       int            `json:"amount"`
	ActivityType string         `json:"activity_type"`
	ActivityID   string         `json:"activity_id,omitempty"`
	Description  string         `json:"description"`
	BonusType    string         `json:"bonus_type,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Achievement tracks progress toward one achievement key. current_value is
// monotonically non-decreasing until target_value; unlocked_at is write-once.
type Achievement struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	Key           string     `json:"achievement_key"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Icon          string     `json:"icon"`
	Rarity        string     `json:"rarity"`
	PointsAwarded int        `json:"points_awarded"`
	UnlockedAt    *time.Time `json:"unlocked_at"`
	TargetValue   int        `json:"target_value"`
	CurrentValue  int        `json:"current_value"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Unlocked reports whether the achievement has been unlocked.
func (a Achievement) Unlocked() bool { return a.UnlockedAt != nil }

// Progress returns completion in [0,1].
func (a Achievement) Progress() float64 {
	if a.TargetValue <= 0 {
		return 1.0
	}
	p := float64(a.CurrentValue) / float64(a.TargetValue)
	if p > 1.0 {
		return 1.0
	}
	return p
}

// RewardsProfile is the single per-learner row of streak/level state.
// last_active_date is a calendar date ("2006-01-02"), not a timestamp.
type RewardsProfile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	ActiveTitle    string    `json:"active_title"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	LastActiveDate string    `json:"last_active_date"`
	TotalEarned    int       `json:"total_earned"`
	Level          int       `json:"level"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
