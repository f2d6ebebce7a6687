package services

import (
	"context"
	"time"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/taxonomy"
)

// Dashboard is the aggregate progress view across subjects.
type Dashboard struct {
	Subjects         []models.SubjectMastery `json:"subjects"`
	OverallMastery   float64                 `json:"overall_mastery"`
	WeakestTopics    []models.TopicMastery   `json:"weakest_topics"`
	CardStats        models.CardStats        `json:"card_stats"`
	RecentExams      []models.Assessment     `json:"recent_exams"`
	DocumentsTotal   int                     `json:"documents_total"`
	AssessmentsTotal int                     `json:"assessments_total"`
}

// SubjectProgress is the per-subject drilldown with topic detail.
type SubjectProgress struct {
	Subject models.SubjectMastery `json:"subject"`
	Topics  []models.TopicMastery `json:"topics"`
}

// StudySignal carries the mastery evidence from one tutoring exchange: a
// per-topic score delta plus optional elapsed minutes.
type StudySignal struct {
	Subject      string             `json:"subject"`
	MasteryDelta map[string]float64 `json:"mastery_delta"`
	MinutesSpent int                `json:"minutes_spent"`
}

// ProgressService reads mastery state for the dashboard and drilldowns, and
// absorbs incremental study signals.
type ProgressService interface {
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
	Mastery(ctx context.Context, userID string) ([]models.SubjectMastery, error)
	SubjectDetail(ctx context.Context, userID, subject string) (*SubjectProgress, error)
	Weaknesses(ctx context.Context, userID, subject string, limit int) ([]models.TopicMastery, error)
	RecordStudySignal(ctx context.Context, userID string, sig StudySignal) error
}

type progressService struct {
	db     *db.DB
	review ReviewService
	now    func() time.Time
}

// NewProgressService creates a ProgressService.
func NewProgressService(d *db.DB, review ReviewService) ProgressService {
	return &progressService{db: d, review: review, now: time.Now}
}

func (s *progressService) Dashboard(ctx context.Context, userID string) (*Dashboard, error) {
	subjects, err := s.db.ListSubjectMastery(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	overall := 0.0
	assessments := 0
	for _, sm := range subjects {
		overall += sm.MasteryScore
		assessments += sm.AssessmentsCount
	}
	if len(subjects) > 0 {
		overall /= float64(len(subjects))
	}

	weakest, err := s.db.WeakestTopics(ctx, userID, "", 5)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	cardStats, err := s.review.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.db.ListAssessments(ctx, userID, "", true, 5)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	docs, err := s.db.ListDocuments(ctx, userID, "", "", "")
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	return &Dashboard{
		Subjects:         subjects,
		OverallMastery:   overall,
		WeakestTopics:    weakest,
		CardStats:        cardStats,
		RecentExams:      recent,
		DocumentsTotal:   len(docs),
		AssessmentsTotal: assessments,
	}, nil
}

func (s *progressService) Mastery(ctx context.Context, userID string) ([]models.SubjectMastery, error) {
	subjects, err := s.db.ListSubjectMastery(ctx, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return subjects, nil
}

func (s *progressService) SubjectDetail(ctx context.Context, userID, subject string) (*SubjectProgress, error) {
	if taxonomy.Find(subject) == nil {
		return nil, errors.NewNotFoundError("subject", subject)
	}
	sm, err := s.db.SubjectMastery(ctx, userID, subject)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if sm == nil {
		return nil, errors.NewNotFoundError("subject", subject)
	}
	topics, err := s.db.ListTopicMastery(ctx, userID, subject)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &SubjectProgress{Subject: *sm, Topics: topics}, nil
}

func (s *progressService) Weaknesses(ctx context.Context, userID, subject string, limit int) ([]models.TopicMastery, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	topics, err := s.db.WeakestTopics(ctx, userID, subject, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return topics, nil
}

// RecordStudySignal nudges topic mastery by the reported deltas, clamped, and
// rolls the subject aggregate forward. Deltas for topics outside the seeded
// taxonomy are ignored.
func (s *progressService) RecordStudySignal(ctx context.Context, userID string, sig StudySignal) error {
	log := logger.FromContext(ctx)

	if taxonomy.Find(sig.Subject) == nil {
		return errors.NewNotFoundError("subject", sig.Subject)
	}
	if len(sig.MasteryDelta) == 0 && sig.MinutesSpent <= 0 {
		return errors.NewValidationError("signal", "has no deltas or minutes to record")
	}

	now := s.now()
	for topic, delta := range sig.MasteryDelta {
		tm, err := s.db.TopicMastery(ctx, userID, sig.Subject, topic)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if tm == nil {
			log.Debug("ignoring signal for unknown topic %s/%s", sig.Subject, topic)
			continue
		}

		tm.MasteryScore = models.ClampScore(tm.MasteryScore + delta)
		tm.ExposureCount++
		if delta > 0 {
			tm.CorrectCount++
		} else if delta < 0 {
			tm.IncorrectCount++
		}
		tm.Confidence = models.ClampScore(float64(tm.ExposureCount) * 5)
		tm.LastStudiedAt = &now
		if err := s.db.UpdateTopicMastery(ctx, *tm); err != nil {
			return errors.NewInternalError(err)
		}
	}

	if err := s.db.AddStudyTime(ctx, userID, sig.Subject, sig.MinutesSpent); err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.db.RefreshSubjectMastery(ctx, userID, sig.Subject, false); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}
