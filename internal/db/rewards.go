package db

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jpaulsen/lawflow/internal/models"
)

// Querier abstracts *sql.DB and *sql.Tx so the reward write path can run every
// statement of one award inside a single transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// InsertLedgerEntry appends one row to the point ledger, assigning an id when
// the caller left it empty.
func InsertLedgerEntry(ctx context.Context, q Querier, e *models.LedgerEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := q.ExecContext(ctx, `
INSERT INTO points_ledger (id, user_id, amount, activity_type, activity_id, description, bonus_type, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, e.ID, e.UserID, e.Amount, e.ActivityType, e.ActivityID, e.Description, e.BonusType,
		marshalJSON(e.Metadata, "{}"))
	return err
}

// LedgerBalance is SUM(amount) over a learner's ledger. The balance is never
// stored anywhere else.
func LedgerBalance(ctx context.Context, q Querier, userID string) (int, error) {
	var balance int
	err := q.QueryRowContext(ctx, `
SELECT COALESCE(SUM(amount), 0) FROM points_ledger WHERE user_id = ?
`, userID).Scan(&balance)
	return balance, err
}

const ledgerColumns = `id, user_id, amount, activity_type, activity_id, description, bonus_type, metadata, created_at`

// ListLedger returns ledger rows newest first with an optional activity-type
// filter.
func ListLedger(ctx context.Context, q Querier, userID, activityType string, limit int) ([]models.LedgerEntry, error) {
	b := sq.Select(ledgerColumns).
		From("points_ledger").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if activityType != "" {
		b = b.Where(sq.Eq{"activity_type": activityType})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		var metadata string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.ActivityType, &e.ActivityID,
			&e.Description, &e.BonusType, &metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		unmarshalJSON(metadata, &e.Metadata)
		out = append(out, e)
	}
	return out, rows.Err()
}

const profileColumns = `id, user_id, active_title, current_streak, longest_streak, last_active_date, total_earned, level, created_at, updated_at`

// EnsureRewardsProfile returns the learner's profile, creating the default row
// on first use.
func EnsureRewardsProfile(ctx context.Context, q Querier, userID string) (models.RewardsProfile, error) {
	if _, err := q.ExecContext(ctx, `
INSERT INTO rewards_profiles (id, user_id) VALUES (?, ?)
ON CONFLICT (user_id) DO NOTHING
`, uuid.NewString(), userID); err != nil {
		return models.RewardsProfile{}, err
	}

	var p models.RewardsProfile
	err := q.QueryRowContext(ctx, `
SELECT `+profileColumns+`
FROM rewards_profiles
WHERE user_id = ?
`, userID).Scan(&p.ID, &p.UserID, &p.ActiveTitle, &p.CurrentStreak, &p.LongestStreak,
		&p.LastActiveDate, &p.TotalEarned, &p.Level, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// SaveRewardsProfile writes back the mutable profile fields.
func SaveRewardsProfile(ctx context.Context, q Querier, p models.RewardsProfile) error {
	_, err := q.ExecContext(ctx, `
UPDATE rewards_profiles
SET active_title = ?, current_streak = ?, longest_streak = ?, last_active_date = ?,
    total_earned = ?, level = ?, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ?
`, p.ActiveTitle, p.CurrentStreak, p.LongestStreak, p.LastActiveDate,
		p.TotalEarned, p.Level, p.UserID)
	return err
}

// InsertAchievement seeds one achievement row; existing rows are untouched.
func InsertAchievement(ctx context.Context, q Querier, a models.Achievement) error {
	_, err := q.ExecContext(ctx, `
INSERT INTO achievements (id, user_id, achievement_key, title, description, icon, rarity, points_awarded, target_value)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id, achievement_key) DO NOTHING
`, uuid.NewString(), a.UserID, a.Key, a.Title, a.Description, a.Icon, a.Rarity,
		a.PointsAwarded, a.TargetValue)
	return err
}

const achievementColumns = `id, user_id, achievement_key, title, description, icon, rarity, points_awarded, target_value, current_value, unlocked_at, created_at`

func scanAchievement(row interface{ Scan(...any) error }) (models.Achievement, error) {
	var a models.Achievement
	err := row.Scan(&a.ID, &a.UserID, &a.Key, &a.Title, &a.Description, &a.Icon,
		&a.Rarity, &a.PointsAwarded, &a.TargetValue, &a.CurrentValue, &a.UnlockedAt, &a.CreatedAt)
	return a, err
}

// AchievementByKey returns one achievement row, or nil when not seeded.
func AchievementByKey(ctx context.Context, q Querier, userID, key string) (*models.Achievement, error) {
	row := q.QueryRowContext(ctx, `
SELECT `+achievementColumns+`
FROM achievements
WHERE user_id = ? AND achievement_key = ?
`, userID, key)
	a, err := scanAchievement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAchievements returns all of a learner's achievement rows, unlocked
// first, then by rarity points.
func ListAchievements(ctx context.Context, q Querier, userID string) ([]models.Achievement, error) {
	rows, err := q.QueryContext(ctx, `
SELECT `+achievementColumns+`
FROM achievements
WHERE user_id = ?
ORDER BY unlocked_at IS NULL, points_awarded, achievement_key
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Achievement
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SaveAchievementProgress writes back current_value and unlocked_at.
func SaveAchievementProgress(ctx context.Context, q Querier, a models.Achievement) error {
	_, err := q.ExecContext(ctx, `
UPDATE achievements
SET current_value = ?, unlocked_at = ?
WHERE user_id = ? AND achievement_key = ?
`, a.CurrentValue, a.UnlockedAt, a.UserID, a.Key)
	return err
}
