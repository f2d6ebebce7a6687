package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
)

// InsertReviewCards stores a batch of cards in one transaction, assigning ids.
func (db *DB) InsertReviewCards(ctx context.Context, cards []models.ReviewCard) error {
	if len(cards) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting %d review cards", len(cards))

	return db.Tx(ctx, func(tx *sql.Tx) error {
		for i := range cards {
			if cards[i].ID == "" {
				cards[i].ID = uuid.NewString()
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO review_cards (id, user_id, chunk_id, subject, topic, front, back, card_type,
    ease_factor, interval_days, repetitions, next_review)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, cards[i].ID, cards[i].UserID, cards[i].ChunkID, cards[i].Subject, cards[i].Topic,
				cards[i].Front, cards[i].Back, cards[i].CardType, cards[i].EaseFactor,
				cards[i].IntervalDays, cards[i].Repetitions, cards[i].NextReview); err != nil {
				return err
			}
		}
		return nil
	})
}

const cardColumns = `id, user_id, chunk_id, subject, topic, front, back, card_type, ease_factor, interval_days, repetitions, next_review, last_reviewed, created_at`

func scanCard(row interface{ Scan(...any) error }) (models.ReviewCard, error) {
	var c models.ReviewCard
	err := row.Scan(&c.ID, &c.UserID, &c.ChunkID, &c.Subject, &c.Topic, &c.Front,
		&c.Back, &c.CardType, &c.EaseFactor, &c.IntervalDays, &c.Repetitions,
		&c.NextReview, &c.LastReviewed, &c.CreatedAt)
	return c, err
}

// DueCards returns cards due at or before now, most overdue first.
func (db *DB) DueCards(ctx context.Context, userID string, now time.Time, subject string, limit int) ([]models.ReviewCard, error) {
	q := sq.Select(cardColumns).
		From("review_cards").
		Where(sq.Eq{"user_id": userID}).
		Where(sq.LtOrEq{"next_review": now}).
		OrderBy("next_review ASC").
		Limit(uint64(limit))
	if subject != "" {
		q = q.Where(sq.Eq{"subject": subject})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListReviewCards returns a learner's cards with optional subject/topic
// filters, newest first.
func (db *DB) ListReviewCards(ctx context.Context, userID, subject, topic string, limit int) ([]models.ReviewCard, error) {
	q := sq.Select(cardColumns).
		From("review_cards").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if subject != "" {
		q = q.Where(sq.Eq{"subject": subject})
	}
	if topic != "" {
		q = q.Where(sq.Eq{"topic": topic})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewCard
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) ReviewCard(ctx context.Context, userID, id string) (*models.ReviewCard, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+cardColumns+`
FROM review_cards
WHERE id = ? AND user_id = ?
`, id, userID)
	c, err := scanCard(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateCardSchedule writes back a card's scheduling state after a review.
func (db *DB) UpdateCardSchedule(ctx context.Context, c models.ReviewCard) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("updating card schedule: id=%s interval=%d ease=%.2f", c.ID, c.IntervalDays, c.EaseFactor)

	_, err := db.ExecContext(ctx, `
UPDATE review_cards
SET ease_factor = ?, interval_days = ?, repetitions = ?, next_review = ?, last_reviewed = ?
WHERE id = ? AND user_id = ?
`, c.EaseFactor, c.IntervalDays, c.Repetitions, c.NextReview, c.LastReviewed, c.ID, c.UserID)
	if err != nil {
		log.Error("failed to update card schedule: %v", err)
	}
	return err
}

// ChunkHasCards reports whether any review cards were already generated from
// the chunk.
func (db *DB) ChunkHasCards(ctx context.Context, userID, chunkID string) (bool, error) {
	var n int
	err := db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM review_cards WHERE user_id = ? AND chunk_id = ?
`, userID, chunkID).Scan(&n)
	return n > 0, err
}

func (db *DB) DeleteReviewCard(ctx context.Context, userID, id string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM review_cards WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ReviewCardStats partitions a learner's cards into new / learning / mature
// and counts the due backlog.
func (db *DB) ReviewCardStats(ctx context.Context, userID string, now time.Time) (models.CardStats, error) {
	var s models.CardStats
	err := db.QueryRowContext(ctx, `
SELECT COUNT(*),
    COALESCE(SUM(CASE WHEN next_review <= ? THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN repetitions = 0 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN repetitions > 0 AND interval_days <= 7 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN repetitions > 0 AND interval_days > 7 THEN 1 ELSE 0 END), 0)
FROM review_cards
WHERE user_id = ?
`, now, userID).Scan(&s.Total, &s.Due, &s.New, &s.Learning, &s.Mature)
	return s, err
}
