package genai

import "context"

// Mock is a test Collaborator. Unset funcs fall back to canned responses so
// most tests only override the call they care about.
type Mock struct {
	TagContentFunc        func(ctx context.Context, subject, content string) (*TagResult, error)
	GenerateQuestionsFunc func(ctx context.Context, req QuestionRequest) ([]GeneratedQuestion, error)
	GenerateCardsFunc     func(ctx context.Context, subject, topic, content string) ([]GeneratedCard, error)
	GradeEssayFunc        func(ctx context.Context, req GradeRequest) (*EssayGrade, error)
	GradeIssueSpotFunc    func(ctx context.Context, req GradeRequest) (*IssueSpotGrade, error)
	AnalyzeExamFunc       func(ctx context.Context, subject, text string) (*ExamAnalysis, error)
}

func (m *Mock) TagContent(ctx context.Context, subject, content string) (*TagResult, error) {
	if m.TagContentFunc != nil {
		return m.TagContentFunc(ctx, subject, content)
	}
	return &TagResult{
		Subject:     subject,
		Topic:       "general",
		Difficulty:  3,
		ContentType: "rule",
		Summary:     "mock tag",
	}, nil
}

func (m *Mock) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]GeneratedQuestion, error) {
	if m.GenerateQuestionsFunc != nil {
		return m.GenerateQuestionsFunc(ctx, req)
	}
	out := make([]GeneratedQuestion, 0, req.Count)
	topic := "general"
	if len(req.Topics) > 0 {
		topic = req.Topics[0].Topic
	}
	for i := 0; i < req.Count; i++ {
		out = append(out, GeneratedQuestion{
			QuestionType:  QuestionTypeOrDefault(req.QuestionType),
			QuestionText:  "What is the governing rule?",
			Options:       []string{"A) First", "B) Second", "C) Third", "D) Fourth"},
			CorrectAnswer: "A",
			Explanation:   "mock explanation",
			Topic:         topic,
			Difficulty:    3,
		})
	}
	return out, nil
}

func (m *Mock) GenerateCards(ctx context.Context, subject, topic, content string) ([]GeneratedCard, error) {
	if m.GenerateCardsFunc != nil {
		return m.GenerateCardsFunc(ctx, subject, topic, content)
	}
	return []GeneratedCard{
		{Front: "Elements of the rule?", Back: "mock back", CardType: "rule"},
		{Front: "Holding of the leading case?", Back: "mock back", CardType: "case_holding"},
		{Front: "Define the concept", Back: "mock back", CardType: "concept"},
	}, nil
}

func (m *Mock) GradeEssay(ctx context.Context, req GradeRequest) (*EssayGrade, error) {
	if m.GradeEssayFunc != nil {
		return m.GradeEssayFunc(ctx, req)
	}
	return &EssayGrade{
		Overall:           70,
		IssueSpotting:     70,
		RuleAccuracy:      70,
		ApplicationDepth:  70,
		ConclusionSupport: 70,
		Feedback:          "mock feedback",
	}, nil
}

func (m *Mock) GradeIssueSpot(ctx context.Context, req GradeRequest) (*IssueSpotGrade, error) {
	if m.GradeIssueSpotFunc != nil {
		return m.GradeIssueSpotFunc(ctx, req)
	}
	return &IssueSpotGrade{Score: 70, Feedback: "mock feedback"}, nil
}

func (m *Mock) AnalyzeExam(ctx context.Context, subject, text string) (*ExamAnalysis, error) {
	if m.AnalyzeExamFunc != nil {
		return m.AnalyzeExamFunc(ctx, subject, text)
	}
	return &ExamAnalysis{
		Topics: []AnalyzedTopic{
			{Topic: "general", Weight: 1.0, QuestionFormat: "essay", Difficulty: "medium"},
		},
	}, nil
}

// QuestionTypeOrDefault normalizes an empty question type to multiple choice.
func QuestionTypeOrDefault(t string) string {
	if t == "" {
		return "multiple_choice"
	}
	return t
}

var _ Collaborator = (*Mock)(nil)
