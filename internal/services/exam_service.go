package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/genai"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/rewards"
	"github.com/jpaulsen/lawflow/internal/taxonomy"
)

// IRAC grading weights. The collaborator's overall score is always discarded
// and recomputed from these.
const (
	iracIssueWeight      = 0.30
	iracRuleWeight       = 0.20
	iracAppWeight        = 0.35
	iracConclusionWeight = 0.15
)

const (
	defaultExamQuestions = 10
	passingScore         = 60.0
	minEssayAnswerChars  = 10
	examCompleteBase     = 50
	contextChunksPerExam = 6
)

// GenerateExamRequest configures exam generation.
type GenerateExamRequest struct {
	Subject          string `json:"subject"`
	Count            int    `json:"num_questions"`
	QuestionType     string `json:"question_type"`
	IsTimed          bool   `json:"is_timed"`
	TimeLimitMinutes int    `json:"time_limit_minutes"`
}

// ExamService generates practice exams, grades answers, and finalizes results
// back into mastery and rewards.
type ExamService interface {
	Generate(ctx context.Context, userID string, req GenerateExamRequest) (*models.ExamResults, error)
	Answer(ctx context.Context, userID, questionID, answer string) (*models.AssessmentQuestion, error)
	Complete(ctx context.Context, userID, assessmentID string, timeTakenMinutes *float64) (*models.ExamResults, *AwardResult, error)
	Results(ctx context.Context, userID, assessmentID string) (*models.ExamResults, error)
	History(ctx context.Context, userID, subject string, limit int) ([]models.Assessment, error)
}

type examService struct {
	db           *db.DB
	ai           genai.Collaborator
	rewards      RewardsService
	maxQuestions int
	now          func() time.Time
}

// NewExamService creates an ExamService. maxQuestions caps a single exam.
func NewExamService(d *db.DB, ai genai.Collaborator, r RewardsService, maxQuestions int) ExamService {
	if maxQuestions <= 0 {
		maxQuestions = 20
	}
	return &examService{db: d, ai: ai, rewards: r, maxQuestions: maxQuestions, now: time.Now}
}

func (s *examService) Generate(ctx context.Context, userID string, req GenerateExamRequest) (*models.ExamResults, error) {
	log := logger.FromContext(ctx)

	subj := taxonomy.Find(req.Subject)
	if subj == nil {
		return nil, errors.NewNotFoundError("subject", req.Subject)
	}
	count := req.Count
	if count <= 0 {
		count = defaultExamQuestions
	}
	if count > s.maxQuestions {
		count = s.maxQuestions
	}

	targets, _, err := rankTargets(ctx, s.db, userID, req.Subject)
	if err != nil {
		return nil, err
	}
	// Candidate pool: twice the question count, highest priority first, so
	// the collaborator has room to balance coverage.
	if len(targets) > 2*count {
		targets = targets[:2*count]
	}
	if len(targets) == 0 {
		return nil, errors.NewValidationError("subject", "has no topics to test")
	}

	qreq := genai.QuestionRequest{
		Subject:      req.Subject,
		SubjectName:  subj.DisplayName,
		Count:        count,
		QuestionType: genai.QuestionTypeOrDefault(req.QuestionType),
	}
	for _, t := range targets {
		qreq.Topics = append(qreq.Topics, genai.QuestionTopic{
			Topic:   t.Topic,
			Name:    t.DisplayName,
			Weight:  t.ExamWeight,
			Mastery: t.Mastery,
		})
	}

	// Blueprint hints: the most recent analysis supplies format and patterns.
	blueprints, err := s.db.ListBlueprints(ctx, userID, req.Subject)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if len(blueprints) > 0 {
		qreq.FormatNotes = blueprints[0].ExamFormat
		if blueprints[0].ProfessorPatterns != "" {
			qreq.Patterns = strings.Split(blueprints[0].ProfessorPatterns, "\n")
		}
		qreq.HighYield = blueprints[0].HighYieldSummary
	}

	qreq.Context = s.gatherContext(ctx, userID, req.Subject, targets)

	generated, err := s.ai.GenerateQuestions(ctx, qreq)
	if err != nil {
		return nil, err
	}
	if len(generated) == 0 {
		return nil, errors.NewValidationError("exam", "question generation produced no usable questions")
	}
	if len(generated) > count {
		generated = generated[:count]
	}

	assessment := models.Assessment{
		UserID:           userID,
		AssessmentType:   "practice_exam",
		Subject:          req.Subject,
		IsTimed:          req.IsTimed,
		TimeLimitMinutes: req.TimeLimitMinutes,
	}
	questions := make([]models.AssessmentQuestion, 0, len(generated))
	seenTopics := map[string]bool{}
	for _, g := range generated {
		qtype := normalizeQuestionType(g.QuestionType)
		questions = append(questions, models.AssessmentQuestion{
			UserID:        userID,
			QuestionType:  qtype,
			QuestionText:  g.QuestionText,
			Options:       g.Options,
			CorrectAnswer: g.CorrectAnswer,
			Feedback:      g.Explanation,
			Subject:       req.Subject,
			Topic:         g.Topic,
			Difficulty:    g.Difficulty,
		})
		if g.Topic != "" && !seenTopics[g.Topic] {
			seenTopics[g.Topic] = true
			assessment.Topics = append(assessment.Topics, g.Topic)
		}
	}

	id, err := s.db.InsertAssessment(ctx, assessment, questions)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	log.Info("exam generated: id=%s subject=%s questions=%d", id, req.Subject, len(questions))
	return s.Results(ctx, userID, id)
}

// gatherContext pulls a few knowledge chunks for the top candidate topics so
// generated questions ground in the learner's actual course material.
func (s *examService) gatherContext(ctx context.Context, userID, subject string, targets []models.TeachingTarget) string {
	log := logger.FromContext(ctx)
	var b strings.Builder
	taken := 0
	for _, t := range targets {
		if taken >= contextChunksPerExam {
			break
		}
		if t.ChunksAvailable == 0 {
			continue
		}
		chunks, err := s.db.ChunksByTopic(ctx, userID, subject, t.Topic, 2)
		if err != nil {
			log.Warn("failed to load context chunks for %s: %v", t.Topic, err)
			continue
		}
		for _, c := range chunks {
			if taken >= contextChunksPerExam {
				break
			}
			fmt.Fprintf(&b, "[%s] %s\n\n", t.DisplayName, c.Content)
			taken++
		}
	}
	return b.String()
}

func (s *examService) Answer(ctx context.Context, userID, questionID, answer string) (*models.AssessmentQuestion, error) {
	log := logger.FromContext(ctx)

	q, err := s.db.AssessmentQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if q == nil {
		return nil, errors.NewNotFoundError("question", questionID)
	}

	assessment, err := s.db.Assessment(ctx, userID, q.AssessmentID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if assessment != nil && assessment.CompletedAt != nil {
		return nil, errors.NewValidationError("assessment", "already completed")
	}

	q.StudentAnswer = answer
	switch q.QuestionType {
	case models.QuestionMC:
		s.gradeMultipleChoice(q)
	case models.QuestionEssay:
		if err := s.gradeEssay(ctx, q); err != nil {
			return nil, err
		}
	case models.QuestionIssueSpot:
		if err := s.gradeIssueSpot(ctx, q); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewValidationError("question_type", "unknown type "+q.QuestionType)
	}

	if err := s.db.UpdateQuestionGrade(ctx, *q); err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Debug("question graded: id=%s type=%s score=%v", q.ID, q.QuestionType, q.Score)
	return q, nil
}

// gradeMultipleChoice compares the first letter of the answer, ignoring case,
// so "a", "A", and "A) Offer" all match a correct answer of "A".
func (s *examService) gradeMultipleChoice(q *models.AssessmentQuestion) {
	score := 0.0
	correct := false
	given := strings.TrimSpace(q.StudentAnswer)
	want := strings.TrimSpace(q.CorrectAnswer)
	if given != "" && want != "" && strings.EqualFold(given[:1], want[:1]) {
		score = 100.0
		correct = true
	}
	q.Score = &score
	q.IsCorrect = &correct
}

func (s *examService) gradeEssay(ctx context.Context, q *models.AssessmentQuestion) error {
	if len(strings.TrimSpace(q.StudentAnswer)) < minEssayAnswerChars {
		zero := 0.0
		no := false
		q.Score = &zero
		q.IsCorrect = &no
		q.Feedback = "Answer too short to grade. Write a full IRAC analysis."
		return nil
	}

	grade, err := s.ai.GradeEssay(ctx, genai.GradeRequest{
		Subject:       q.Subject,
		Topic:         q.Topic,
		QuestionText:  q.QuestionText,
		ModelAnswer:   q.CorrectAnswer,
		StudentAnswer: q.StudentAnswer,
	})
	if err != nil {
		return err
	}

	issue := models.ClampScore(grade.IssueSpotting)
	rule := models.ClampScore(grade.RuleAccuracy)
	app := models.ClampScore(grade.ApplicationDepth)
	concl := models.ClampScore(grade.ConclusionSupport)
	// Recompute the overall locally; the collaborator's own overall is not
	// trusted to match the rubric.
	score := issue*iracIssueWeight + rule*iracRuleWeight + app*iracAppWeight + concl*iracConclusionWeight
	correct := score >= passingScore

	q.Score = &score
	q.IsCorrect = &correct
	q.IRACIssue = &issue
	q.IRACRule = &rule
	q.IRACApp = &app
	q.IRACConcl = &concl
	q.Feedback = formatEssayFeedback(grade)
	return nil
}

func formatEssayFeedback(g *genai.EssayGrade) string {
	var b strings.Builder
	b.WriteString(g.Feedback)
	if len(g.Strengths) > 0 {
		b.WriteString("\n\nStrengths:\n")
		for _, s := range g.Strengths {
			b.WriteString("- " + s + "\n")
		}
	}
	if len(g.Weaknesses) > 0 {
		b.WriteString("\nWeaknesses:\n")
		for _, s := range g.Weaknesses {
			b.WriteString("- " + s + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func (s *examService) gradeIssueSpot(ctx context.Context, q *models.AssessmentQuestion) error {
	grade, err := s.ai.GradeIssueSpot(ctx, genai.GradeRequest{
		Subject:       q.Subject,
		Topic:         q.Topic,
		QuestionText:  q.QuestionText,
		ModelAnswer:   q.CorrectAnswer,
		StudentAnswer: q.StudentAnswer,
	})
	if err != nil {
		return err
	}

	score := models.ClampScore(grade.Score)
	correct := score >= passingScore
	q.Score = &score
	q.IsCorrect = &correct

	var b strings.Builder
	b.WriteString(grade.Feedback)
	if len(grade.IssuesMissed) > 0 {
		b.WriteString("\n\nIssues missed:\n")
		for _, issue := range grade.IssuesMissed {
			b.WriteString("- " + issue + "\n")
		}
	}
	if len(grade.FalsePositives) > 0 {
		b.WriteString("\nIssues raised that the facts do not support:\n")
		for _, issue := range grade.FalsePositives {
			b.WriteString("- " + issue + "\n")
		}
	}
	q.Feedback = strings.TrimSpace(b.String())
	return nil
}

func (s *examService) Complete(ctx context.Context, userID, assessmentID string, timeTakenMinutes *float64) (*models.ExamResults, *AwardResult, error) {
	log := logger.FromContext(ctx)

	assessment, err := s.db.Assessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}
	if assessment == nil {
		return nil, nil, errors.NewNotFoundError("assessment", assessmentID)
	}
	if assessment.CompletedAt != nil {
		return nil, nil, errors.NewValidationError("assessment", "already completed")
	}

	questions, err := s.db.AssessmentQuestions(ctx, assessmentID)
	if err != nil {
		return nil, nil, errors.NewInternalError(err)
	}

	topicScores := map[string][]float64{}
	var graded []float64
	for _, q := range questions {
		if q.Score == nil {
			continue
		}
		graded = append(graded, *q.Score)
		if q.Topic != "" {
			topicScores[q.Topic] = append(topicScores[q.Topic], *q.Score)
		}
	}
	if len(graded) == 0 {
		return nil, nil, errors.NewValidationError("assessment", "no answered questions to score")
	}
	overall := mean(graded)

	now := s.now()
	summary := fmt.Sprintf("Scored %.0f%% across %d answered questions.", overall, len(graded))
	if err := s.db.CompleteAssessment(ctx, userID, assessmentID, overall, timeTakenMinutes, summary, now); err != nil {
		return nil, nil, errors.NewInternalError(err)
	}

	if err := s.applyMastery(ctx, userID, assessment.Subject, topicScores, now); err != nil {
		log.Error("mastery update failed: %v", err)
		return nil, nil, err
	}

	award := s.awardCompletion(ctx, userID, assessmentID, overall)

	results, err := s.Results(ctx, userID, assessmentID)
	if err != nil {
		return nil, nil, err
	}
	log.Info("exam completed: id=%s score=%.1f", assessmentID, overall)
	return results, award, nil
}

// applyMastery blends exam performance into topic mastery: 60% old signal,
// 40% new evidence, clamped to [0,100].
func (s *examService) applyMastery(ctx context.Context, userID, subject string, topicScores map[string][]float64, now time.Time) error {
	for topic, scores := range topicScores {
		tm, err := s.db.TopicMastery(ctx, userID, subject, topic)
		if err != nil {
			return errors.NewInternalError(err)
		}
		if tm == nil {
			// Generated questions may name topics outside the seeded
			// taxonomy; those do not move mastery.
			continue
		}

		avg := mean(scores)
		tm.MasteryScore = models.ClampScore(0.6*tm.MasteryScore + 0.4*avg)
		tm.ExposureCount += len(scores)
		for _, sc := range scores {
			if sc >= passingScore {
				tm.CorrectCount++
			} else {
				tm.IncorrectCount++
			}
		}
		tm.Confidence = models.ClampScore(float64(tm.ExposureCount) * 5)
		tm.LastTestedAt = &now
		if err := s.db.UpdateTopicMastery(ctx, *tm); err != nil {
			return errors.NewInternalError(err)
		}
	}
	if err := s.db.RefreshSubjectMastery(ctx, userID, subject, true); err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// awardCompletion hands the completion to the rewards ledger. Reward failures
// degrade to a no-op; the exam result is already durable.
func (s *examService) awardCompletion(ctx context.Context, userID, assessmentID string, overall float64) *AwardResult {
	log := logger.FromContext(ctx)

	var special []string
	if overall == 100 {
		special = append(special, "perfect_exam")
	}
	if unlocks, err := s.masteryUnlocks(ctx, userID); err != nil {
		log.Warn("mastery unlock check failed: %v", err)
	} else {
		special = append(special, unlocks...)
	}

	points := examCompleteBase + int(math.Round(overall/2))
	award, err := s.rewards.Award(ctx, userID, rewards.ActivityExamComplete, assessmentID,
		points, "Completed a practice exam",
		map[string]any{"score": overall}, special)
	if err != nil {
		log.Warn("reward for exam completion failed: %v", err)
		return nil
	}
	return award
}

// masteryUnlocks checks the milestone achievements that depend on global
// mastery state rather than activity counters.
func (s *examService) masteryUnlocks(ctx context.Context, userID string) ([]string, error) {
	var out []string

	var strongest float64
	err := s.db.QueryRowContext(ctx, `
SELECT COALESCE(MAX(mastery_score), 0) FROM topic_mastery WHERE user_id = ?
`, userID).Scan(&strongest)
	if err != nil {
		return nil, err
	}
	if strongest >= 80 {
		out = append(out, "mastery_first_80")
	}

	subjects, err := s.db.ListSubjectMastery(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(subjects) > 0 {
		all := true
		for _, sm := range subjects {
			if sm.MasteryScore < 50 {
				all = false
				break
			}
		}
		if all {
			out = append(out, "mastery_all_50")
		}
	}
	return out, nil
}

func (s *examService) Results(ctx context.Context, userID, assessmentID string) (*models.ExamResults, error) {
	assessment, err := s.db.Assessment(ctx, userID, assessmentID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if assessment == nil {
		return nil, errors.NewNotFoundError("assessment", assessmentID)
	}
	questions, err := s.db.AssessmentQuestions(ctx, assessmentID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	results := &models.ExamResults{
		Assessment:     *assessment,
		Questions:      questions,
		TopicBreakdown: map[string]float64{},
	}

	topicScores := map[string][]float64{}
	var issue, rule, app, concl []float64
	for _, q := range questions {
		if q.Score != nil && q.Topic != "" {
			topicScores[q.Topic] = append(topicScores[q.Topic], *q.Score)
		}
		if q.IRACIssue != nil {
			issue = append(issue, *q.IRACIssue)
			rule = append(rule, *q.IRACRule)
			app = append(app, *q.IRACApp)
			concl = append(concl, *q.IRACConcl)
		}
	}
	for topic, scores := range topicScores {
		results.TopicBreakdown[topic] = mean(scores)
	}
	if len(issue) > 0 {
		results.IRACBreakdown = map[string]*float64{
			"issue_spotting":     ptr(mean(issue)),
			"rule_accuracy":      ptr(mean(rule)),
			"application_depth":  ptr(mean(app)),
			"conclusion_support": ptr(mean(concl)),
		}
	}
	return results, nil
}

func (s *examService) History(ctx context.Context, userID, subject string, limit int) ([]models.Assessment, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	out, err := s.db.ListAssessments(ctx, userID, subject, false, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return out, nil
}

func normalizeQuestionType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "multiple_choice", "mc":
		return models.QuestionMC
	case "issue_spot", "issue_spotting":
		return models.QuestionIssueSpot
	default:
		return models.QuestionEssay
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func ptr(v float64) *float64 { return &v }
