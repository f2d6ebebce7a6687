package models

import "time"

// SubjectMastery is the denormalized per-subject aggregate of topic mastery.
// mastery_score is recomputed as the arithmetic mean of child topics whenever
// any topic changes.
type SubjectMastery struct {
	ID                    string     `json:"id"`
	UserID                string     `json:"-"`
	Subject               string     `json:"subject"`
	DisplayName           string     `json:"display_name"`
	MasteryScore          float64    `json:"mastery_score"`
	TotalStudyTimeMinutes int        `json:"total_study_time_minutes"`
	SessionsCount         int        `json:"sessions_count"`
	AssessmentsCount      int        `json:"assessments_count"`
	LastStudiedAt         *time.Time `json:"last_studied_at"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// TopicMastery tracks a learner's command of a single topic. mastery_score and
// confidence stay clamped to [0,100].
type TopicMastery struct {
	ID             string     `json:"id"`
	UserID         string     `json:"-"`
	Subject        string     `json:"subject"`
	Topic          string     `json:"topic"`
	DisplayName    string     `json:"display_name"`
	MasteryScore   float64    `json:"mastery_score"`
	Confidence     float64    `json:"confidence"`
	ExposureCount  int        `json:"exposure_count"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	LastTestedAt   *time.Time `json:"last_tested_at"`
	LastStudiedAt  *time.Time `json:"last_studied_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ClampScore bounds a mastery/confidence value to [0,100].
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
