package models

// TeachingTarget is one topic the learner should study, with the context that
// justified picking it. Computed per plan invocation, never persisted.
type TeachingTarget struct {
	Subject             string  `json:"subject"`
	Topic               string  `json:"topic"`
	DisplayName         string  `json:"display_name"`
	PriorityScore       float64 `json:"priority_score"`
	Mastery             float64 `json:"mastery"`
	ExamWeight          float64 `json:"exam_weight"`
	RecommendedMode     string  `json:"recommended_mode"`
	ModeReason          string  `json:"mode_reason"`
	ChunksAvailable     int     `json:"knowledge_chunks_available"`
	TimeEstimateMinutes int     `json:"time_estimate_minutes"`
}

// AutoSession is the ready-to-start session config for the plan's head target.
type AutoSession struct {
	Mode           string   `json:"mode"`
	Subject        string   `json:"subject"`
	Topics         []string `json:"topics"`
	OpeningMessage string   `json:"opening_message"`
}

// TeachingPlan is the ordered, time-budget-constrained study plan for a
// subject with exactly one next action.
type TeachingPlan struct {
	Subject               string           `json:"subject"`
	SubjectDisplay        string           `json:"subject_display"`
	HasExamData           bool             `json:"has_exam_data"`
	Targets               []TeachingTarget `json:"teaching_plan"`
	TotalEstimatedMinutes int              `json:"total_estimated_minutes"`
	AutoSession           *AutoSession     `json:"auto_session"`
	Message               string           `json:"message,omitempty"`
}
