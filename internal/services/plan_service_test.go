package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/priority"
)

func TestTeachingPlanFreshLearner(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)

	plan, err := svc.TeachingPlan(context.Background(), testUser, "contracts", 0, 60)
	require.NoError(t, err)

	assert.Equal(t, "contracts", plan.Subject)
	assert.Equal(t, "Contracts", plan.SubjectDisplay)
	assert.False(t, plan.HasExamData)
	// Every topic sits at mastery 0, a 50 minute estimate, so exactly one
	// fits the hour.
	require.Len(t, plan.Targets, 1)
	assert.Equal(t, 50, plan.TotalEstimatedMinutes)
	assert.Equal(t, priority.ModeExplain, plan.Targets[0].RecommendedMode)
	require.NotNil(t, plan.AutoSession)
	assert.Equal(t, priority.ModeExplain, plan.AutoSession.Mode)
	assert.Equal(t, []string{plan.Targets[0].Topic}, plan.AutoSession.Topics)
	assert.NotContains(t, plan.AutoSession.OpeningMessage, "of your exam")
}

func TestTeachingPlanWithoutBudgetTruncatesToMaxTopics(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)
	ctx := context.Background()

	// No budget given: the plan is only capped by max_topics (default 10).
	plan, err := svc.TeachingPlan(ctx, testUser, "contracts", 0, 0)
	require.NoError(t, err)
	require.Len(t, plan.Targets, 10)
	assert.Equal(t, 500, plan.TotalEstimatedMinutes)

	plan, err = svc.TeachingPlan(ctx, testUser, "contracts", 3, 0)
	require.NoError(t, err)
	assert.Len(t, plan.Targets, 3)
}

func TestTeachingPlanTiesKeepSeedOrder(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)

	// Fresh learner: every topic ties at priority 1/16, so the ranking must
	// preserve the order the taxonomy lists them in.
	plan, err := svc.TeachingPlan(context.Background(), testUser, "contracts", 0, 0)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(plan.Targets), 3)
	assert.Equal(t, "offer", plan.Targets[0].Topic)
	assert.Equal(t, "acceptance", plan.Targets[1].Topic)
	assert.Equal(t, "consideration", plan.Targets[2].Topic)
}

func TestTeachingPlanRespectsBudget(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)

	plan, err := svc.TeachingPlan(context.Background(), testUser, "contracts", 0, 120)
	require.NoError(t, err)
	require.Len(t, plan.Targets, 2)
	assert.Equal(t, 100, plan.TotalEstimatedMinutes)
}

func TestTeachingPlanBudgetNeverSkipsUrgentTopics(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)
	ctx := context.Background()

	// One glaring gap (50 minute estimate) ahead of a tail of near-mastered
	// topics (5 minutes each).
	topics, err := d.ListTopicMastery(ctx, testUser, "contracts")
	require.NoError(t, err)
	for _, tm := range topics {
		if tm.Topic != "acceptance" {
			setTopicScore(t, d, "contracts", tm.Topic, 95)
		}
	}

	// The gap does not fit 40 minutes. The plan must stop there, not fill
	// the time with low-priority polish.
	plan, err := svc.TeachingPlan(ctx, testUser, "contracts", 0, 40)
	require.NoError(t, err)
	assert.Empty(t, plan.Targets)
	assert.NotEmpty(t, plan.Message)
	assert.Nil(t, plan.AutoSession)

	// With an hour it fits, and it stays at the head of the plan.
	plan, err = svc.TeachingPlan(ctx, testUser, "contracts", 0, 60)
	require.NoError(t, err)
	require.Len(t, plan.Targets, 3)
	assert.Equal(t, 60, plan.TotalEstimatedMinutes)
	assert.Equal(t, "acceptance", plan.Targets[0].Topic)
	require.NotNil(t, plan.AutoSession)
	assert.Equal(t, []string{"acceptance"}, plan.AutoSession.Topics)
}

func TestTeachingPlanNothingFits(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)

	plan, err := svc.TeachingPlan(context.Background(), testUser, "contracts", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, plan.Targets)
	assert.NotEmpty(t, plan.Message)
	assert.Nil(t, plan.AutoSession)
}

func TestTeachingPlanUnknownSubject(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)

	_, err := svc.TeachingPlan(context.Background(), testUser, "astrology", 0, 60)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestTeachingPlanPrioritizesWeakTopics(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)
	ctx := context.Background()

	// Everything but two topics is nearly mastered.
	topics, err := d.ListTopicMastery(ctx, testUser, "contracts")
	require.NoError(t, err)
	for _, tm := range topics {
		switch tm.Topic {
		case "offer":
			setTopicScore(t, d, "contracts", tm.Topic, 40)
		case "breach":
			setTopicScore(t, d, "contracts", tm.Topic, 10)
		default:
			setTopicScore(t, d, "contracts", tm.Topic, 95)
		}
	}

	plan, err := svc.TeachingPlan(ctx, testUser, "contracts", 0, 120)
	require.NoError(t, err)
	require.NotEmpty(t, plan.Targets)
	assert.Equal(t, "breach", plan.Targets[0].Topic)
	assert.Equal(t, priority.ModeExplain, plan.Targets[0].RecommendedMode)
}

func TestNextTopicUsesBlueprintWeights(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)
	ctx := context.Background()

	docID, _ := insertChunkedDocument(t, d, "contracts", "consideration", "Consideration is a bargained-for exchange.")
	_, err := d.ReplaceBlueprint(ctx, models.ExamBlueprint{
		UserID:     testUser,
		DocumentID: docID,
		Subject:    "contracts",
		TopicsTested: []models.ExamTopicWeight{
			{UserID: testUser, Subject: "contracts", Topic: "consideration", Weight: 0.9},
		},
	})
	require.NoError(t, err)

	target, session, err := svc.NextTopic(ctx, testUser, "contracts")
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, "consideration", target.Topic)
	assert.InDelta(t, 0.9, target.ExamWeight, 0.001)
	assert.Equal(t, 1, target.ChunksAvailable)
	require.NotNil(t, session)
	assert.Contains(t, session.OpeningMessage, "Consideration")
	assert.Contains(t, session.OpeningMessage, "about 90% of your exam")
}

func TestNextTopicModeTracksMastery(t *testing.T) {
	d := newTestEnv(t)
	svc := NewPlanService(d)
	ctx := context.Background()

	// Push one topic far ahead so the mode shifts while it still ranks when
	// everything else is mastered.
	topics, err := d.ListTopicMastery(ctx, testUser, "torts")
	require.NoError(t, err)
	for _, tm := range topics {
		if tm.Topic == "negligence_duty" {
			setTopicScore(t, d, "torts", tm.Topic, 60)
		} else {
			setTopicScore(t, d, "torts", tm.Topic, 100)
		}
	}

	target, _, err := svc.NextTopic(ctx, testUser, "torts")
	require.NoError(t, err)
	require.NotNil(t, target)
	assert.Equal(t, "negligence_duty", target.Topic)
	assert.Equal(t, priority.ModeHypo, target.RecommendedMode)
}
