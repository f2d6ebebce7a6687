package models

import "time"

// Question types
const (
	QuestionMC        = "mc"
	QuestionEssay     = "essay"
	QuestionIssueSpot = "issue_spot"
)

type Assessment struct {
	ID               string     `json:"id"`
	UserID           string     `json:"-"`
	AssessmentType   string     `json:"assessment_type"`
	Subject          string     `json:"subject"`
	Topics           []string   `json:"topics"`
	TotalQuestions   int        `json:"total_questions"`
	Score            *float64   `json:"score"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	TimeTakenMinutes *float64   `json:"time_taken_minutes"`
	IsTimed          bool       `json:"is_timed"`
	FeedbackSummary  string     `json:"feedback_summary"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

type AssessmentQuestion struct {
	ID            string    `json:"id"`
	UserID        string    `json:"-"`
	AssessmentID  string    `json:"assessment_id"`
	QuestionIndex int       `json:"question_index"`
	QuestionType  string    `json:"question_type"`
	QuestionText  string    `json:"question_text"`
	Options       []string  `json:"options,omitempty"`
	CorrectAnswer string    `json:"correct_answer"`
	StudentAnswer string    `json:"student_answer"`
	IsCorrect     *bool     `json:"is_correct"`
	Score         *float64  `json:"score"`
	IRACIssue     *float64  `json:"irac_issue,omitempty"`
	IRACRule      *float64  `json:"irac_rule,omitempty"`
	IRACApp       *float64  `json:"irac_application,omitempty"`
	IRACConcl     *float64  `json:"irac_conclusion,omitempty"`
	Feedback      string    `json:"feedback"`
	Subject       string    `json:"subject"`
	Topic         string    `json:"topic"`
	Difficulty    int       `json:"difficulty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ExamResults is an assessment with its graded questions and breakdowns.
type ExamResults struct {
	Assessment
	Questions      []AssessmentQuestion `json:"questions"`
	TopicBreakdown map[string]float64   `json:"topic_breakdown"`
	IRACBreakdown  map[string]*float64  `json:"irac_breakdown,omitempty"`
}
