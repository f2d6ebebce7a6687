package db

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
)

// EnsureSubjectMastery inserts a subject row if missing. Idempotent; used by
// startup seeding.
func (db *DB) EnsureSubjectMastery(ctx context.Context, userID, subject, displayName string) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO subject_mastery (id, user_id, subject, display_name)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id, subject) DO NOTHING
`, uuid.NewString(), userID, subject, displayName)
	return err
}

// EnsureTopicMastery inserts a topic row if missing. Idempotent.
func (db *DB) EnsureTopicMastery(ctx context.Context, userID, subject, topic, displayName string) error {
	_, err := db.ExecContext(ctx, `
INSERT INTO topic_mastery (id, user_id, subject, topic, display_name)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id, subject, topic) DO NOTHING
`, uuid.NewString(), userID, subject, topic, displayName)
	return err
}

const subjectMasteryColumns = `id, user_id, subject, display_name, mastery_score, total_study_time_minutes, sessions_count, assessments_count, last_studied_at, created_at, updated_at`

func scanSubjectMastery(row interface{ Scan(...any) error }) (models.SubjectMastery, error) {
	var m models.SubjectMastery
	err := row.Scan(&m.ID, &m.UserID, &m.Subject, &m.DisplayName, &m.MasteryScore,
		&m.TotalStudyTimeMinutes, &m.SessionsCount, &m.AssessmentsCount,
		&m.LastStudiedAt, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (db *DB) ListSubjectMastery(ctx context.Context, userID string) ([]models.SubjectMastery, error) {
	log := logger.FromContext(ctx).WithPrefix("db")

	rows, err := db.QueryContext(ctx, `
SELECT `+subjectMasteryColumns+`
FROM subject_mastery
WHERE user_id = ?
ORDER BY subject
`, userID)
	if err != nil {
		log.Error("failed to query subject mastery: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.SubjectMastery
	for rows.Next() {
		m, err := scanSubjectMastery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (db *DB) SubjectMastery(ctx context.Context, userID, subject string) (*models.SubjectMastery, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+subjectMasteryColumns+`
FROM subject_mastery
WHERE user_id = ? AND subject = ?
`, userID, subject)
	m, err := scanSubjectMastery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const topicMasteryColumns = `id, user_id, subject, topic, display_name, mastery_score, confidence, exposure_count, correct_count, incorrect_count, last_tested_at, last_studied_at, created_at, updated_at`

func scanTopicMastery(row interface{ Scan(...any) error }) (models.TopicMastery, error) {
	var m models.TopicMastery
	err := row.Scan(&m.ID, &m.UserID, &m.Subject, &m.Topic, &m.DisplayName,
		&m.MasteryScore, &m.Confidence, &m.ExposureCount, &m.CorrectCount,
		&m.IncorrectCount, &m.LastTestedAt, &m.LastStudiedAt, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (db *DB) ListTopicMastery(ctx context.Context, userID, subject string) ([]models.TopicMastery, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+topicMasteryColumns+`
FROM topic_mastery
WHERE user_id = ? AND subject = ?
ORDER BY topic
`, userID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.TopicMastery
	for rows.Next() {
		m, err := scanTopicMastery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (db *DB) TopicMastery(ctx context.Context, userID, subject, topic string) (*models.TopicMastery, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+topicMasteryColumns+`
FROM topic_mastery
WHERE user_id = ? AND subject = ? AND topic = ?
`, userID, subject, topic)
	m, err := scanTopicMastery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// WeakestTopics returns topics ordered by ascending mastery, optionally
// scoped to one subject.
func (db *DB) WeakestTopics(ctx context.Context, userID, subject string, limit int) ([]models.TopicMastery, error) {
	q := sq.Select(topicMasteryColumns).
		From("topic_mastery").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("mastery_score ASC", "topic ASC").
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

	var out []models.TopicMastery
	for rows.Next() {
		m, err := scanTopicMastery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// UpdateTopicMastery writes back a topic's score and counter fields.
func (db *DB) UpdateTopicMastery(ctx context.Context, m models.TopicMastery) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("updating topic mastery: subject=%s topic=%s score=%.1f", m.Subject, m.Topic, m.MasteryScore)

	_, err := db.ExecContext(ctx, `
UPDATE topic_mastery
SET mastery_score = ?, confidence = ?, exposure_count = ?, correct_count = ?,
    incorrect_count = ?, last_tested_at = ?, last_studied_at = ?, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ? AND subject = ? AND topic = ?
`, m.MasteryScore, m.Confidence, m.ExposureCount, m.CorrectCount,
		m.IncorrectCount, m.LastTestedAt, m.LastStudiedAt, m.UserID, m.Subject, m.Topic)
	if err != nil {
		log.Error("failed to update topic mastery: %v", err)
	}
	return err
}

// TouchTopicStudied bumps last_studied_at without changing scores.
func (db *DB) TouchTopicStudied(ctx context.Context, userID, subject, topic string) error {
	_, err := db.ExecContext(ctx, `
UPDATE topic_mastery
SET last_studied_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
WHERE user_id = ? AND subject = ? AND topic = ?
`, userID, subject, topic)
	return err
}

// RefreshSubjectMastery recomputes a subject's aggregate score as the mean of
// its topics and optionally bumps the assessment counter.
func (db *DB) RefreshSubjectMastery(ctx context.Context, userID, subject string, countAssessment bool) error {
	log := logger.FromContext(ctx).WithPrefix("db")

	bump := 0
	if countAssessment {
		bump = 1
	}
	_, err := db.ExecContext(ctx, `
UPDATE subject_mastery
SET mastery_score = COALESCE((
        SELECT AVG(mastery_score) FROM topic_mastery
        WHERE user_id = ? AND subject = ?
    ), 0),
    assessments_count = assessments_count + ?,
    last_studied_at = CURRENT_TIMESTAMP,
    updated_at = CURRENT_TIMESTAMP
WHERE user_id = ? AND subject = ?
`, userID, subject, bump, userID, subject)
	if err != nil {
		log.Error("failed to refresh subject mastery: %v", err)
	}
	return err
}

// AddStudyTime accumulates study minutes and session count on a subject.
func (db *DB) AddStudyTime(ctx context.Context, userID, subject string, minutes int) error {
	_, err := db.ExecContext(ctx, `
UPDATE subject_mastery
SET total_study_time_minutes = total_study_time_minutes + ?,
    sessions_count = sessions_count + 1,
    last_studied_at = CURRENT_TIMESTAMP,
    updated_at = CURRENT_TIMESTAMP
WHERE user_id = ? AND subject = ?
`, minutes, userID, subject)
	return err
}
