package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/priority"
	"github.com/jpaulsen/lawflow/internal/taxonomy"
)

const defaultMaxTopics = 10

// PlanService decides what to study next: it ranks a subject's topics by
// priority, picks the teaching mode per topic, and assembles a time-budgeted
// plan with one ready-to-start session.
type PlanService interface {
	TeachingPlan(ctx context.Context, userID, subject string, maxTopics, timeBudgetMinutes int) (*models.TeachingPlan, error)
	NextTopic(ctx context.Context, userID, subject string) (*models.TeachingTarget, *models.AutoSession, error)
}

type planService struct {
	db *db.DB
}

// NewPlanService creates a PlanService.
func NewPlanService(d *db.DB) PlanService {
	return &planService{db: d}
}

func (s *planService) TeachingPlan(ctx context.Context, userID, subject string, maxTopics, timeBudgetMinutes int) (*models.TeachingPlan, error) {
	log := logger.FromContext(ctx)

	subj := taxonomy.Find(subject)
	if subj == nil {
		return nil, errors.NewNotFoundError("subject", subject)
	}
	if maxTopics <= 0 {
		maxTopics = defaultMaxTopics
	}

	targets, hasExamData, err := rankTargets(ctx, s.db, userID, subject)
	if err != nil {
		return nil, err
	}
	if len(targets) > maxTopics {
		targets = targets[:maxTopics]
	}

	plan := &models.TeachingPlan{
		Subject:        subject,
		SubjectDisplay: subj.DisplayName,
		HasExamData:    hasExamData,
		Targets:        []models.TeachingTarget{},
	}

	// Budget fit, only when the caller gave a budget: consume the ranked list
	// in order and stop at the first topic whose estimate no longer fits.
	// Lower-priority topics never jump the queue to fill leftover minutes.
	total := 0
	for _, t := range targets {
		if timeBudgetMinutes > 0 && total+t.TimeEstimateMinutes > timeBudgetMinutes {
			break
		}
		plan.Targets = append(plan.Targets, t)
		total += t.TimeEstimateMinutes
	}
	plan.TotalEstimatedMinutes = total

	if len(plan.Targets) == 0 {
		plan.Message = "Nothing fits the requested time budget. Try a longer session or review due cards instead."
		return plan, nil
	}

	head := plan.Targets[0]
	sessionMinutes := timeBudgetMinutes
	if sessionMinutes <= 0 {
		sessionMinutes = head.TimeEstimateMinutes
	}
	plan.AutoSession = buildAutoSession(head, sessionMinutes, hasExamData)

	log.Debug("teaching plan: subject=%s targets=%d total_minutes=%d has_exam_data=%v",
		subject, len(plan.Targets), total, hasExamData)
	return plan, nil
}

// NextTopic is a teaching plan capped at one topic, with no time budget.
func (s *planService) NextTopic(ctx context.Context, userID, subject string) (*models.TeachingTarget, *models.AutoSession, error) {
	plan, err := s.TeachingPlan(ctx, userID, subject, 1, 0)
	if err != nil {
		return nil, nil, err
	}
	if len(plan.Targets) == 0 {
		return nil, nil, nil
	}
	return &plan.Targets[0], plan.AutoSession, nil
}

// rankTargets scores every topic of a subject and returns them ordered by
// descending priority; ties keep the taxonomy's seed order. Shared by the
// plan and exam services.
func rankTargets(ctx context.Context, d *db.DB, userID, subject string) ([]models.TeachingTarget, bool, error) {
	subj := taxonomy.Find(subject)
	if subj == nil {
		return nil, false, errors.NewNotFoundError("subject", subject)
	}
	topics, err := d.ListTopicMastery(ctx, userID, subject)
	if err != nil {
		return nil, false, errors.NewInternalError(err)
	}
	weights, err := d.SubjectTopicWeights(ctx, userID, subject)
	if err != nil {
		return nil, false, errors.NewInternalError(err)
	}
	chunkCounts, err := d.ChunkCountsBySubject(ctx, userID, subject)
	if err != nil {
		return nil, false, errors.NewInternalError(err)
	}
	hasExamData := len(weights) > 0

	mastery := make(map[string]models.TopicMastery, len(topics))
	for _, tm := range topics {
		mastery[tm.Topic] = tm
	}

	defaultWeight := priority.DefaultWeight(len(topics))
	targets := make([]models.TeachingTarget, 0, len(topics))
	for _, topic := range subj.Topics {
		tm, ok := mastery[topic.Key]
		if !ok {
			continue
		}
		weight, ok := weights[tm.Topic]
		if !ok {
			weight = defaultWeight
		}
		mode, reason := priority.SelectTeachingMode(tm.MasteryScore, hasExamData)
		targets = append(targets, models.TeachingTarget{
			Subject:             subject,
			Topic:               tm.Topic,
			DisplayName:         tm.DisplayName,
			PriorityScore:       priority.ComputePriority(weight, tm.MasteryScore),
			Mastery:             tm.MasteryScore,
			ExamWeight:          weight,
			RecommendedMode:     mode,
			ModeReason:          reason,
			ChunksAvailable:     chunkCounts[tm.Topic],
			TimeEstimateMinutes: priority.EstimateMinutes(tm.MasteryScore),
		})
	}

	sort.SliceStable(targets, func(i, j int) bool {
		return targets[i].PriorityScore > targets[j].PriorityScore
	})
	return targets, hasExamData, nil
}

// buildAutoSession frames the opening message for the plan's head target from
// the learner's mastery, the topic's exam weight when known, and the session
// length.
func buildAutoSession(t models.TeachingTarget, budgetMinutes int, hasExamData bool) *models.AutoSession {
	var framing string
	switch {
	case t.Mastery < 20:
		framing = fmt.Sprintf("We're starting %s from the ground up.", t.DisplayName)
	case t.Mastery < 50:
		framing = fmt.Sprintf("You have some foundation in %s. Let's strengthen it.", t.DisplayName)
	case t.Mastery < 75:
		framing = fmt.Sprintf("You know %s fairly well. Time to test the edges.", t.DisplayName)
	default:
		framing = fmt.Sprintf("You're close to mastering %s. Let's polish it.", t.DisplayName)
	}

	var examFraming string
	if hasExamData {
		examFraming = fmt.Sprintf(" It makes up about %.0f%% of your exam.", t.ExamWeight*100)
	}

	var depth string
	switch {
	case budgetMinutes <= 30:
		depth = "We'll keep this session quick and focused."
	case budgetMinutes <= 60:
		depth = "We have time for a solid working session."
	case budgetMinutes <= 90:
		depth = "We can go deep on the hard parts today."
	default:
		depth = "We have time for a comprehensive session, so expect follow-up questions."
	}

	return &models.AutoSession{
		Mode:           t.RecommendedMode,
		Subject:        t.Subject,
		Topics:         []string{t.Topic},
		OpeningMessage: framing + examFraming + " " + depth,
	}
}
