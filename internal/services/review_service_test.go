package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpaulsen/lawflow/internal/db"
	apperrors "github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/genai"
)

func newReviewService(d *db.DB, mock *genai.Mock) *reviewService {
	return &reviewService{
		db:      d,
		ai:      mock,
		rewards: newFixedRewards(d),
		now:     fixedNow,
	}
}

func TestGenerateFromChunk(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})
	ctx := context.Background()

	_, chunkID := insertChunkedDocument(t, d, "contracts", "offer", "An offer requires definite terms.")

	cards, err := svc.GenerateFromChunk(ctx, testUser, chunkID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	for _, c := range cards {
		assert.Equal(t, "contracts", c.Subject)
		assert.Equal(t, "offer", c.Topic)
		assert.Equal(t, chunkID, c.ChunkID)
		assert.Equal(t, 2.5, c.EaseFactor)
		assert.Zero(t, c.Repetitions)
		assert.Equal(t, fixedNow(), c.NextReview.UTC())
	}

	stored, err := svc.List(ctx, testUser, "contracts", "offer", 10)
	require.NoError(t, err)
	assert.Len(t, stored, 3)
}

func TestGenerateFromChunkCapsCards(t *testing.T) {
	d := newTestEnv(t)
	mock := &genai.Mock{
		GenerateCardsFunc: func(ctx context.Context, subject, topic, content string) ([]genai.GeneratedCard, error) {
			out := make([]genai.GeneratedCard, 8)
			for i := range out {
				out[i] = genai.GeneratedCard{Front: "front", Back: "back", CardType: "rule"}
			}
			return out, nil
		},
	}
	svc := newReviewService(d, mock)
	_, chunkID := insertChunkedDocument(t, d, "contracts", "offer", "text")

	cards, err := svc.GenerateFromChunk(context.Background(), testUser, chunkID)
	require.NoError(t, err)
	assert.Len(t, cards, 5)
}

func TestGenerateFromChunkMalformedOutput(t *testing.T) {
	d := newTestEnv(t)
	mock := &genai.Mock{
		GenerateCardsFunc: func(ctx context.Context, subject, topic, content string) ([]genai.GeneratedCard, error) {
			return []genai.GeneratedCard{{Front: "", Back: "back"}, {Front: "front", Back: ""}}, nil
		},
	}
	svc := newReviewService(d, mock)
	_, chunkID := insertChunkedDocument(t, d, "contracts", "offer", "text")

	cards, err := svc.GenerateFromChunk(context.Background(), testUser, chunkID)
	require.NoError(t, err)
	assert.Nil(t, cards)
}

func TestGenerateFromChunkCollaboratorFailure(t *testing.T) {
	d := newTestEnv(t)
	mock := &genai.Mock{
		GenerateCardsFunc: func(ctx context.Context, subject, topic, content string) ([]genai.GeneratedCard, error) {
			return nil, errors.New("model unavailable")
		},
	}
	svc := newReviewService(d, mock)
	_, chunkID := insertChunkedDocument(t, d, "contracts", "offer", "text")

	cards, err := svc.GenerateFromChunk(context.Background(), testUser, chunkID)
	require.NoError(t, err)
	assert.Nil(t, cards)
}

func TestGenerateFromChunkMissingChunk(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})

	_, err := svc.GenerateFromChunk(context.Background(), testUser, "no-such-chunk")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestGenerateForSubjectWalksChunks(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})
	ctx := context.Background()

	insertChunkedDocument(t, d, "contracts", "offer", "Offer material.")
	insertChunkedDocument(t, d, "contracts", "breach", "Breach material.")

	created, err := svc.GenerateForSubject(ctx, testUser, "contracts")
	require.NoError(t, err)
	// Two chunks, three mock cards each.
	assert.Equal(t, 6, created)

	// Covered chunks are skipped on the next pass.
	created, err = svc.GenerateForSubject(ctx, testUser, "contracts")
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestReviewAdvancesSchedule(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})
	ctx := context.Background()

	_, chunkID := insertChunkedDocument(t, d, "contracts", "offer", "text")
	cards, err := svc.GenerateFromChunk(ctx, testUser, chunkID)
	require.NoError(t, err)
	card := cards[0]

	got, err := svc.Review(ctx, testUser, card.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Repetitions)
	assert.Equal(t, 1, got.IntervalDays)
	assert.InDelta(t, 2.6, got.EaseFactor, 0.001)
	assert.Equal(t, fixedNow().AddDate(0, 0, 1), got.NextReview.UTC())
	require.NotNil(t, got.LastReviewed)

	// A lapse resets repetitions and the interval.
	got, err = svc.Review(ctx, testUser, card.ID, 1)
	require.NoError(t, err)
	assert.Zero(t, got.Repetitions)
	assert.Equal(t, 1, got.IntervalDays)
}

func TestReviewRejectsBadQuality(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})

	for _, q := range []int{-1, 6} {
		_, err := svc.Review(context.Background(), testUser, "any", q)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	}
}

func TestReviewMissingCard(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})

	_, err := svc.Review(context.Background(), testUser, "no-such-card", 4)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestDueAndStats(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})
	ctx := context.Background()

	_, chunkID := insertChunkedDocument(t, d, "contracts", "offer", "text")
	cards, err := svc.GenerateFromChunk(ctx, testUser, chunkID)
	require.NoError(t, err)

	due, err := svc.Due(ctx, testUser, "contracts", 0)
	require.NoError(t, err)
	assert.Len(t, due, 3)

	// Passing one card pushes it past now.
	_, err = svc.Review(ctx, testUser, cards[0].ID, 5)
	require.NoError(t, err)

	due, err = svc.Due(ctx, testUser, "contracts", 0)
	require.NoError(t, err)
	assert.Len(t, due, 2)

	stats, err := svc.Stats(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Due)
	assert.Equal(t, 2, stats.New)
	assert.Equal(t, 1, stats.Learning)
	assert.Zero(t, stats.Mature)
}

func TestDeleteCard(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})
	ctx := context.Background()

	_, chunkID := insertChunkedDocument(t, d, "contracts", "offer", "text")
	cards, err := svc.GenerateFromChunk(ctx, testUser, chunkID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testUser, cards[0].ID))

	err = svc.Delete(ctx, testUser, cards[0].ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestCompleteSessionAwardsPerCard(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})
	ctx := context.Background()

	award, err := svc.CompleteSession(ctx, testUser, 30)
	require.NoError(t, err)
	// 30 cards at 2 points + day-1 streak bonus 10
	assert.Equal(t, 70, award.PointsEarned)

	achievements, err := svc.rewards.Achievements(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 30, achievementByKey(t, achievements, "flashcards_100").CurrentValue)
}

func TestCompleteSessionRejectsZeroCards(t *testing.T) {
	d := newTestEnv(t)
	svc := newReviewService(d, &genai.Mock{})

	_, err := svc.CompleteSession(context.Background(), testUser, 0)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}
