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

// InsertAssessment stores a generated assessment with its questions in one
// transaction and returns the new id.
func (db *DB) InsertAssessment(ctx context.Context, a models.Assessment, questions []models.AssessmentQuestion) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting assessment: subject=%s questions=%d", a.Subject, len(questions))

	id := uuid.NewString()
	err := db.Tx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO assessments (id, user_id, assessment_type, subject, topics, total_questions, time_limit_minutes, is_timed)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, id, a.UserID, a.AssessmentType, a.Subject, marshalJSON(a.Topics, "[]"),
			len(questions), a.TimeLimitMinutes, a.IsTimed); err != nil {
			return err
		}
		for i, q := range questions {
			if _, err := tx.ExecContext(ctx, `
INSERT INTO assessment_questions (id, user_id, assessment_id, question_index, question_type,
    question_text, options, correct_answer, subject, topic, difficulty, feedback)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, uuid.NewString(), a.UserID, id, i, q.QuestionType, q.QuestionText,
				marshalJSON(q.Options, "[]"), q.CorrectAnswer, q.Subject, q.Topic, q.Difficulty, q.Feedback); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert assessment: %v", err)
		return "", err
	}
	return id, nil
}

const assessmentColumns = `id, user_id, assessment_type, subject, topics, total_questions, score, time_limit_minutes, time_taken_minutes, is_timed, feedback_summary, created_at, completed_at`

func scanAssessment(row interface{ Scan(...any) error }) (models.Assessment, error) {
	var a models.Assessment
	var topics string
	err := row.Scan(&a.ID, &a.UserID, &a.AssessmentType, &a.Subject, &topics,
		&a.TotalQuestions, &a.Score, &a.TimeLimitMinutes, &a.TimeTakenMinutes,
		&a.IsTimed, &a.FeedbackSummary, &a.CreatedAt, &a.CompletedAt)
	if err != nil {
		return a, err
	}
	unmarshalJSON(topics, &a.Topics)
	return a, nil
}

func (db *DB) Assessment(ctx context.Context, userID, id string) (*models.Assessment, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+assessmentColumns+`
FROM assessments
WHERE id = ? AND user_id = ?
`, id, userID)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAssessments returns a learner's assessments newest first, with optional
// subject and completed-only filters.
func (db *DB) ListAssessments(ctx context.Context, userID, subject string, completedOnly bool, limit int) ([]models.Assessment, error) {
	q := sq.Select(assessmentColumns).
		From("assessments").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))
	if subject != "" {
		q = q.Where(sq.Eq{"subject": subject})
	}
	if completedOnly {
		q = q.Where(sq.NotEq{"completed_at": nil})
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

	var out []models.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

const questionColumns = `id, user_id, assessment_id, question_index, question_type, question_text, options, correct_answer, student_answer, is_correct, score, irac_issue, irac_rule, irac_application, irac_conclusion, feedback, subject, topic, difficulty, created_at`

func scanQuestion(row interface{ Scan(...any) error }) (models.AssessmentQuestion, error) {
	var q models.AssessmentQuestion
	var options string
	err := row.Scan(&q.ID, &q.UserID, &q.AssessmentID, &q.QuestionIndex, &q.QuestionType,
		&q.QuestionText, &options, &q.CorrectAnswer, &q.StudentAnswer, &q.IsCorrect,
		&q.Score, &q.IRACIssue, &q.IRACRule, &q.IRACApp, &q.IRACConcl,
		&q.Feedback, &q.Subject, &q.Topic, &q.Difficulty, &q.CreatedAt)
	if err != nil {
		return q, err
	}
	unmarshalJSON(options, &q.Options)
	return q, nil
}

func (db *DB) AssessmentQuestions(ctx context.Context, assessmentID string) ([]models.AssessmentQuestion, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+questionColumns+`
FROM assessment_questions
WHERE assessment_id = ?
ORDER BY question_index
`, assessmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AssessmentQuestion
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (db *DB) AssessmentQuestion(ctx context.Context, userID, questionID string) (*models.AssessmentQuestion, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+questionColumns+`
FROM assessment_questions
WHERE id = ? AND user_id = ?
`, questionID, userID)
	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// UpdateQuestionGrade stores the graded answer on a question.
func (db *DB) UpdateQuestionGrade(ctx context.Context, q models.AssessmentQuestion) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("grading question: id=%s score=%v", q.ID, q.Score)

	_, err := db.ExecContext(ctx, `
UPDATE assessment_questions
SET student_answer = ?, is_correct = ?, score = ?, irac_issue = ?, irac_rule = ?,
    irac_application = ?, irac_conclusion = ?, feedback = ?
WHERE id = ? AND user_id = ?
`, q.StudentAnswer, q.IsCorrect, q.Score, q.IRACIssue, q.IRACRule, q.IRACApp, q.IRACConcl,
		q.Feedback, q.ID, q.UserID)
	if err != nil {
		log.Error("failed to update question grade: %v", err)
	}
	return err
}

// CompleteAssessment writes the final score and completion timestamp.
// completed_at is write-once; callers check it before calling.
func (db *DB) CompleteAssessment(ctx context.Context, userID, id string, score float64, timeTaken *float64, summary string, completedAt time.Time) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("completing assessment: id=%s score=%.1f", id, score)

	_, err := db.ExecContext(ctx, `
UPDATE assessments
SET score = ?, time_taken_minutes = ?, feedback_summary = ?, completed_at = ?
WHERE id = ? AND user_id = ? AND completed_at IS NULL
`, score, timeTaken, summary, completedAt, id, userID)
	if err != nil {
		log.Error("failed to complete assessment: %v", err)
	}
	return err
}
