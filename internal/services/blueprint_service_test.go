package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpaulsen/lawflow/internal/db"
	apperrors "github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/genai"
	"github.com/jpaulsen/lawflow/internal/models"
)

func newBlueprintService(d *db.DB, mock *genai.Mock) BlueprintService {
	return &blueprintService{db: d, ai: mock, rewards: newFixedRewards(d)}
}

func TestAnalyzeExamBuildsBlueprint(t *testing.T) {
	d := newTestEnv(t)
	ten := 10
	ninety := 90
	mock := &genai.Mock{
		AnalyzeExamFunc: func(ctx context.Context, subject, text string) (*genai.ExamAnalysis, error) {
			return &genai.ExamAnalysis{
				ExamTitle: "Contracts Fall 2024 Final",
				Topics: []genai.AnalyzedTopic{
					{Topic: "offer", Weight: 0.4, QuestionFormat: "essay", Difficulty: "high"},
					{Topic: "breach", Weight: 0.6, QuestionFormat: "mc", Difficulty: "low"},
					{Topic: "remedies_damages", Weight: 1.7, QuestionFormat: "essay", Difficulty: "unknown"},
				},
				TotalQuestions:    &ten,
				TimeLimitMinutes:  &ninety,
				QuestionFormats:   []string{"essay", "mc"},
				ProfessorPatterns: []string{"tests UCC crossovers", "one policy question"},
				HighYieldSummary:  "Formation and remedies dominate; memorize UCC 2-207.",
			}, nil
		},
	}
	svc := newBlueprintService(d, mock)
	ctx := context.Background()

	docID, _ := insertChunkedDocument(t, d, "contracts", "offer", "Fall exam text.")

	bp, err := svc.AnalyzeExam(ctx, testUser, docID)
	require.NoError(t, err)
	assert.Equal(t, "contracts", bp.Subject)
	assert.Equal(t, docID, bp.DocumentID)
	assert.Equal(t, "Contracts Fall 2024 Final", bp.ExamTitle)
	assert.Equal(t, "essay, mc", bp.ExamFormat)
	assert.Equal(t, "tests UCC crossovers\none policy question", bp.ProfessorPatterns)
	assert.Equal(t, "Formation and remedies dominate; memorize UCC 2-207.", bp.HighYieldSummary)
	require.Len(t, bp.TopicsTested, 3)

	byTopic := map[string]models.ExamTopicWeight{}
	for _, w := range bp.TopicsTested {
		byTopic[w.Topic] = w
	}
	assert.Equal(t, 4, byTopic["offer"].Difficulty)
	assert.Equal(t, 2, byTopic["breach"].Difficulty)
	assert.Equal(t, 3, byTopic["remedies_damages"].Difficulty)
	// Out-of-range weights clamp to [0,1].
	assert.Equal(t, 1.0, byTopic["remedies_damages"].Weight)

	weights, err := d.SubjectTopicWeights(ctx, testUser, "contracts")
	require.NoError(t, err)
	assert.InDelta(t, 0.4, weights["offer"], 0.001)
	assert.InDelta(t, 0.6, weights["breach"], 0.001)
}

func TestAnalyzeExamAwardsPastTestPoints(t *testing.T) {
	d := newTestEnv(t)
	svc := newBlueprintService(d, &genai.Mock{})
	rewardsSvc := newFixedRewards(d)
	ctx := context.Background()

	docID, _ := insertChunkedDocument(t, d, "contracts", "offer", "Fall exam text.")

	_, err := svc.AnalyzeExam(ctx, testUser, docID)
	require.NoError(t, err)

	achievements, err := rewardsSvc.Achievements(ctx, testUser)
	require.NoError(t, err)
	first := achievementByKey(t, achievements, "first_upload")
	assert.True(t, first.Unlocked())
	assert.Equal(t, 1, achievementByKey(t, achievements, "past_tests_5").CurrentValue)
}

func TestAnalyzeExamReplacesPriorBlueprint(t *testing.T) {
	d := newTestEnv(t)
	svc := newBlueprintService(d, &genai.Mock{})
	ctx := context.Background()

	docID, _ := insertChunkedDocument(t, d, "contracts", "offer", "Fall exam text.")

	_, err := svc.AnalyzeExam(ctx, testUser, docID)
	require.NoError(t, err)
	_, err = svc.AnalyzeExam(ctx, testUser, docID)
	require.NoError(t, err)

	blueprints, err := svc.List(ctx, testUser, "contracts")
	require.NoError(t, err)
	assert.Len(t, blueprints, 1)
}

func TestAnalyzeExamRequiresProcessedDocument(t *testing.T) {
	d := newTestEnv(t)
	svc := newBlueprintService(d, &genai.Mock{})
	ctx := context.Background()

	docID, err := d.InsertDocument(ctx, models.Document{
		UserID:   testUser,
		Filename: "exam.txt",
		DocType:  models.DocExam,
		Subject:  "contracts",
	}, "raw exam text")
	require.NoError(t, err)

	_, err = svc.AnalyzeExam(ctx, testUser, docID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestAnalyzeExamMissingDocument(t *testing.T) {
	d := newTestEnv(t)
	svc := newBlueprintService(d, &genai.Mock{})

	_, err := svc.AnalyzeExam(context.Background(), testUser, "no-such-document")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
