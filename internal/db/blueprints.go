package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
)

// ReplaceBlueprint stores a fresh analysis for a document, discarding any
// earlier blueprint of the same document in the same transaction.
func (db *DB) ReplaceBlueprint(ctx context.Context, bp models.ExamBlueprint) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("replacing blueprint: document_id=%s topics=%d", bp.DocumentID, len(bp.TopicsTested))

	id := uuid.NewString()
	err := db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM exam_blueprints WHERE user_id = ? AND document_id = ?
`, bp.UserID, bp.DocumentID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO exam_blueprints (id, user_id, document_id, subject, exam_title, exam_format,
    total_questions, time_limit_minutes, professor_patterns, high_yield_summary)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, id, bp.UserID, bp.DocumentID, bp.Subject, bp.ExamTitle, bp.ExamFormat,
			bp.TotalQuestions, bp.TimeLimitMinutes, bp.ProfessorPatterns, bp.HighYieldSummary); err != nil {
			return err
		}
		for _, w := range bp.TopicsTested {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO exam_topic_weights (id, user_id, blueprint_id, subject, topic, weight, question_format, difficulty, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, uuid.NewString(), bp.UserID, id, bp.Subject, w.Topic, w.Weight, w.QuestionFormat, w.Difficulty, w.Notes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to replace blueprint: %v", err)
		return "", err
	}
	return id, nil
}

const blueprintColumns = `id, user_id, document_id, subject, exam_title, exam_format, total_questions, time_limit_minutes, professor_patterns, high_yield_summary, created_at`

func scanBlueprint(row interface{ Scan(...any) error }) (models.ExamBlueprint, error) {
	var bp models.ExamBlueprint
	err := row.Scan(&bp.ID, &bp.UserID, &bp.DocumentID, &bp.Subject, &bp.ExamTitle,
		&bp.ExamFormat, &bp.TotalQuestions, &bp.TimeLimitMinutes,
		&bp.ProfessorPatterns, &bp.HighYieldSummary, &bp.CreatedAt)
	return bp, err
}

func (db *DB) blueprintWeights(ctx context.Context, blueprintID string) ([]models.ExamTopicWeight, error) {
	rows, err := db.QueryContext(ctx, `
SELECT id, user_id, blueprint_id, subject, topic, weight, question_format, difficulty, notes, created_at
FROM exam_topic_weights
WHERE blueprint_id = ?
ORDER BY weight DESC
`, blueprintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExamTopicWeight
	for rows.Next() {
		var w models.ExamTopicWeight
		if err := rows.Scan(&w.ID, &w.UserID, &w.BlueprintID, &w.Subject, &w.Topic,
			&w.Weight, &w.QuestionFormat, &w.Difficulty, &w.Notes, &w.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// ListBlueprints returns a learner's blueprints, newest first, optionally
// scoped to one subject.
func (db *DB) ListBlueprints(ctx context.Context, userID, subject string) ([]models.ExamBlueprint, error) {
	query := `
SELECT ` + blueprintColumns + `
FROM exam_blueprints
WHERE user_id = ?
ORDER BY created_at DESC
`
	args := []any{userID}
	if subject != "" {
		query = `
SELECT ` + blueprintColumns + `
FROM exam_blueprints
WHERE user_id = ? AND subject = ?
ORDER BY created_at DESC
`
		args = append(args, subject)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ExamBlueprint
	for rows.Next() {
		bp, err := scanBlueprint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, bp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		weights, err := db.blueprintWeights(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].TopicsTested = weights
	}
	return out, nil
}

// SubjectTopicWeights aggregates exam weights across all of a subject's
// blueprints: per-topic mean of that topic's weight within each blueprint that
// tests it.
func (db *DB) SubjectTopicWeights(ctx context.Context, userID, subject string) (map[string]float64, error) {
	rows, err := db.QueryContext(ctx, `
SELECT topic, AVG(weight)
FROM exam_topic_weights
WHERE user_id = ? AND subject = ?
GROUP BY topic
`, userID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var topic string
		var weight float64
		if err := rows.Scan(&topic, &weight); err != nil {
			return nil, err
		}
		out[topic] = weight
	}
	return out, rows.Err()
}
