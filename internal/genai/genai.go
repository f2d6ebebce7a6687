// Package genai defines the model-collaborator boundary: every operation that
// delegates judgment to a language model goes through the Collaborator
// interface, so services stay testable with the mock and the engine's own
// decision rules (grading weights, clamps, fallbacks) remain local.
package genai

import "context"

// TagResult is the classification a collaborator assigns to one content chunk.
type TagResult struct {
	Subject     string   `json:"subject"`
	Topic       string   `json:"topic"`
	Subtopic    string   `json:"subtopic"`
	Difficulty  int      `json:"difficulty"`
	ContentType string   `json:"content_type"`
	CaseName    string   `json:"case_name"`
	KeyTerms    []string `json:"key_terms"`
	Summary     string   `json:"summary"`
}

// QuestionRequest asks for exam questions over a set of weighted topics.
type QuestionRequest struct {
	Subject      string
	SubjectName  string
	Topics       []QuestionTopic
	Count        int
	QuestionType string
	FormatNotes  string
	Patterns     []string
	HighYield    string
	Context      string
}

// QuestionTopic is one topic the generated exam should cover.
type QuestionTopic struct {
	Topic   string
	Name    string
	Weight  float64
	Mastery float64
}

// GeneratedQuestion is one exam question returned by the collaborator.
type GeneratedQuestion struct {
	QuestionType  string   `json:"question_type"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Topic         string   `json:"topic"`
	Difficulty    int      `json:"difficulty"`
}

// GeneratedCard is one flashcard derived from a knowledge chunk.
type GeneratedCard struct {
	Front    string `json:"front"`
	Back     string `json:"back"`
	CardType string `json:"card_type"`
}

// GradeRequest carries one answer to grade.
type GradeRequest struct {
	Subject       string
	Topic         string
	QuestionText  string
	ModelAnswer   string
	StudentAnswer string
}

// EssayGrade is the collaborator's IRAC evaluation of an essay answer. The
// overall score it reports is advisory; callers recompute it from the
// sub-scores.
type EssayGrade struct {
	Overall           float64  `json:"overall_score"`
	IssueSpotting     float64  `json:"issue_spotting"`
	RuleAccuracy      float64  `json:"rule_accuracy"`
	ApplicationDepth  float64  `json:"application_depth"`
	ConclusionSupport float64  `json:"conclusion_support"`
	Feedback          string   `json:"feedback"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
}

// IssueSpotGrade is the collaborator's evaluation of an issue-spotting answer.
type IssueSpotGrade struct {
	Score          float64  `json:"score"`
	IssuesSpotted  []string `json:"issues_spotted"`
	IssuesMissed   []string `json:"issues_missed"`
	FalsePositives []string `json:"false_positives"`
	Feedback       string   `json:"feedback"`
}

// AnalyzedTopic is one topic the collaborator found tested on a past exam.
type AnalyzedTopic struct {
	Topic          string  `json:"topic"`
	Weight         float64 `json:"weight"`
	QuestionFormat string  `json:"question_format"`
	Difficulty     string  `json:"difficulty"`
	Notes          string  `json:"notes"`
}

// ExamAnalysis is the structured blueprint extracted from a past exam.
type ExamAnalysis struct {
	ExamTitle         string          `json:"exam_title"`
	Topics            []AnalyzedTopic `json:"topics_tested"`
	TotalQuestions    *int            `json:"total_questions"`
	TimeLimitMinutes  *int            `json:"time_limit_minutes"`
	QuestionFormats   []string        `json:"question_formats"`
	ProfessorPatterns []string        `json:"professor_patterns"`
	HighYieldSummary  string          `json:"high_yield_summary"`
}

// Collaborator is the language-model boundary. Implementations must be safe
// for concurrent use; worker jobs and request handlers share one instance.
type Collaborator interface {
	TagContent(ctx context.Context, subject, content string) (*TagResult, error)
	GenerateQuestions(ctx context.Context, req QuestionRequest) ([]GeneratedQuestion, error)
	GenerateCards(ctx context.Context, subject, topic, content string) ([]GeneratedCard, error)
	GradeEssay(ctx context.Context, req GradeRequest) (*EssayGrade, error)
	GradeIssueSpot(ctx context.Context, req GradeRequest) (*IssueSpotGrade, error)
	AnalyzeExam(ctx context.Context, subject, text string) (*ExamAnalysis, error)
}
