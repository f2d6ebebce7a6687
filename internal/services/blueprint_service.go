package services

import (
	"context"
	"strings"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/genai"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/rewards"
)

const pastTestAnalysisPoints = 30

// BlueprintService turns uploaded past exams into structured blueprints that
// drive priority weighting and exam generation.
type BlueprintService interface {
	AnalyzeExam(ctx context.Context, userID, documentID string) (*models.ExamBlueprint, error)
	List(ctx context.Context, userID, subject string) ([]models.ExamBlueprint, error)
}

type blueprintService struct {
	db      *db.DB
	ai      genai.Collaborator
	rewards RewardsService
}

// NewBlueprintService creates a BlueprintService.
func NewBlueprintService(d *db.DB, ai genai.Collaborator, r RewardsService) BlueprintService {
	return &blueprintService{db: d, ai: ai, rewards: r}
}

func (s *blueprintService) AnalyzeExam(ctx context.Context, userID, documentID string) (*models.ExamBlueprint, error) {
	log := logger.FromContext(ctx)
	log.Debug("analyzing exam document: id=%s", documentID)

	doc, err := s.db.Document(ctx, userID, documentID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if doc == nil {
		return nil, errors.NewNotFoundError("document", documentID)
	}
	if doc.ProcessingStatus != models.StatusCompleted {
		return nil, errors.NewValidationError("document", "must finish processing before analysis")
	}

	chunks, err := s.db.ChunksByDocument(ctx, userID, documentID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if len(chunks) == 0 {
		return nil, errors.NewValidationError("document", "has no content to analyze")
	}
	var text strings.Builder
	for _, c := range chunks {
		text.WriteString(c.Content)
		text.WriteString("\n\n")
	}

	analysis, err := s.ai.AnalyzeExam(ctx, doc.Subject, text.String())
	if err != nil {
		return nil, err
	}
	if len(analysis.Topics) == 0 {
		return nil, errors.NewValidationError("document", "analysis found no tested topics")
	}

	title := analysis.ExamTitle
	if title == "" {
		title = doc.Filename
	}
	bp := models.ExamBlueprint{
		UserID:            userID,
		DocumentID:        documentID,
		Subject:           doc.Subject,
		ExamTitle:         title,
		ExamFormat:        strings.Join(analysis.QuestionFormats, ", "),
		TotalQuestions:    analysis.TotalQuestions,
		TimeLimitMinutes:  analysis.TimeLimitMinutes,
		ProfessorPatterns: strings.Join(analysis.ProfessorPatterns, "\n"),
		HighYieldSummary:  analysis.HighYieldSummary,
	}
	for _, t := range analysis.Topics {
		weight := t.Weight
		if weight < 0 {
			weight = 0
		}
		if weight > 1 {
			weight = 1
		}
		bp.TopicsTested = append(bp.TopicsTested, models.ExamTopicWeight{
			UserID:         userID,
			Subject:        doc.Subject,
			Topic:          t.Topic,
			Weight:         weight,
			QuestionFormat: t.QuestionFormat,
			Difficulty:     difficultyRank(t.Difficulty),
			Notes:          t.Notes,
		})
	}

	id, err := s.db.ReplaceBlueprint(ctx, bp)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	bp.ID = id

	// Reward failures never undo a successful analysis.
	if _, err := s.rewards.Award(ctx, userID, rewards.ActivityPastTestUpload, id,
		pastTestAnalysisPoints, "Analyzed a past exam", nil, nil); err != nil {
		log.Warn("reward for exam analysis failed: %v", err)
	}

	log.Info("exam analyzed: document=%s topics=%d", documentID, len(bp.TopicsTested))
	return &bp, nil
}

func (s *blueprintService) List(ctx context.Context, userID, subject string) ([]models.ExamBlueprint, error) {
	out, err := s.db.ListBlueprints(ctx, userID, subject)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return out, nil
}

func difficultyRank(s string) int {
	switch strings.ToLower(s) {
	case "low", "easy":
		return 2
	case "high", "hard":
		return 4
	default:
		return 3
	}
}
