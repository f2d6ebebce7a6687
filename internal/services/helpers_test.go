package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/testutil"
)

const testUser = "test-user"

func fixedNow() time.Time {
	return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
}

func newTestEnv(t *testing.T) *db.DB {
	t.Helper()
	d := testutil.NewTestDB(t)
	require.NoError(t, SeedLearner(context.Background(), d, testUser))
	return d
}

// newFixedRewards builds a rewards service with no random bonus and a frozen
// clock, so point totals in tests are exact.
func newFixedRewards(d *db.DB) *rewardsService {
	return &rewardsService{
		db:        d,
		rollBonus: func() int { return 0 },
		now:       fixedNow,
	}
}

func setTopicScore(t *testing.T, d *db.DB, subject, topic string, score float64) {
	t.Helper()
	ctx := context.Background()
	tm, err := d.TopicMastery(ctx, testUser, subject, topic)
	require.NoError(t, err)
	require.NotNil(t, tm)
	tm.MasteryScore = score
	require.NoError(t, d.UpdateTopicMastery(ctx, *tm))
}

// insertChunkedDocument stores a completed document with one tagged chunk and
// returns the document and chunk IDs.
func insertChunkedDocument(t *testing.T, d *db.DB, subject, topic, content string) (string, string) {
	t.Helper()
	ctx := context.Background()

	docID, err := d.InsertDocument(ctx, models.Document{
		UserID:    testUser,
		Filename:  "outline.txt",
		DocType:   models.DocOutline,
		Subject:   subject,
		SizeBytes: len(content),
	}, content)
	require.NoError(t, err)

	require.NoError(t, d.InsertKnowledgeChunks(ctx, []models.KnowledgeChunk{{
		UserID:     testUser,
		DocumentID: docID,
		Content:    content,
		ChunkIndex: 0,
		Subject:    subject,
		Topic:      topic,
		Difficulty: 3,
	}}))
	require.NoError(t, d.SetDocumentChunkCount(ctx, testUser, docID, 1))
	require.NoError(t, d.UpdateDocumentStatus(ctx, testUser, docID, models.StatusCompleted, ""))

	chunks, err := d.ChunksByDocument(ctx, testUser, docID)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	return docID, chunks[0].ID
}

func achievementByKey(t *testing.T, achievements []models.Achievement, key string) models.Achievement {
	t.Helper()
	for _, a := range achievements {
		if a.Key == key {
			return a
		}
	}
	t.Fatalf("achievement %s not found", key)
	return models.Achievement{}
}
