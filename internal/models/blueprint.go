package models

import "time"

// ExamBlueprint stores the analysis of one uploaded past exam. Immutable once
// created; re-analysis deletes and recreates it.
type ExamBlueprint struct {
	ID                string            `json:"id"`
	UserID            string            `json:"-"`
	DocumentID        string            `json:"document_id"`
	Subject           string            `json:"subject"`
	ExamTitle         string            `json:"exam_title"`
	ExamFormat        string            `json:"exam_format"`
	TotalQuestions    *int              `json:"total_questions"`
	TimeLimitMinutes  *int              `json:"time_limit_minutes"`
	ProfessorPatterns string            `json:"professor_patterns"`
	HighYieldSummary  string            `json:"high_yield_summary"`
	TopicsTested      []ExamTopicWeight `json:"topics_tested"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ExamTopicWeight is the fraction of one exam devoted to a topic. Weights for a
// blueprint are expected to sum to roughly 1.0 but this is not enforced.
type ExamTopicWeight struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	BlueprintID    string    `json:"blueprint_id"`
	Subject        string    `json:"subject"`
	Topic          string    `json:"topic"`
	Weight         float64   `json:"weight"`
	QuestionFormat string    `json:"question_format"`
	Difficulty     int       `json:"difficulty"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}
