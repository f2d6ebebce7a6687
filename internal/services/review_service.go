package services

import (
	"context"
	"time"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/genai"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/review"
	"github.com/jpaulsen/lawflow/internal/rewards"
)

const (
	maxCardsPerChunk      = 5
	defaultDueLimit       = 20
	sessionPointsPerCard  = 2
	generateChunksPerPass = 10
)

// ReviewService owns the spaced-repetition loop: due queues, SM-2 grading,
// card generation from knowledge chunks, and session rewards.
type ReviewService interface {
	Due(ctx context.Context, userID, subject string, limit int) ([]models.ReviewCard, error)
	Review(ctx context.Context, userID, cardID string, quality int) (*models.ReviewCard, error)
	Stats(ctx context.Context, userID string) (models.CardStats, error)
	List(ctx context.Context, userID, subject, topic string, limit int) ([]models.ReviewCard, error)
	Delete(ctx context.Context, userID, cardID string) error
	GenerateFromChunk(ctx context.Context, userID, chunkID string) ([]models.ReviewCard, error)
	GenerateForSubject(ctx context.Context, userID, subject string) (int, error)
	CompleteSession(ctx context.Context, userID string, cardsReviewed int) (*AwardResult, error)
}

type reviewService struct {
	db      *db.DB
	ai      genai.Collaborator
	rewards RewardsService
	now     func() time.Time
}

// NewReviewService creates a ReviewService.
func NewReviewService(d *db.DB, ai genai.Collaborator, r RewardsService) ReviewService {
	return &reviewService{db: d, ai: ai, rewards: r, now: time.Now}
}

func (s *reviewService) Due(ctx context.Context, userID, subject string, limit int) ([]models.ReviewCard, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultDueLimit
	}
	cards, err := s.db.DueCards(ctx, userID, s.now(), subject, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *reviewService) Review(ctx context.Context, userID, cardID string, quality int) (*models.ReviewCard, error) {
	log := logger.FromContext(ctx)

	if quality < 0 || quality > 5 {
		return nil, errors.NewValidationError("quality", "must be between 0 and 5")
	}

	card, err := s.db.ReviewCard(ctx, userID, cardID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", cardID)
	}

	now := s.now()
	next := review.Apply(review.State{
		EaseFactor:   card.EaseFactor,
		IntervalDays: card.IntervalDays,
		Repetitions:  card.Repetitions,
		NextReview:   card.NextReview,
	}, quality, now)

	card.EaseFactor = next.EaseFactor
	card.IntervalDays = next.IntervalDays
	card.Repetitions = next.Repetitions
	card.NextReview = next.NextReview
	card.LastReviewed = &now

	if err := s.db.UpdateCardSchedule(ctx, *card); err != nil {
		return nil, errors.NewInternalError(err)
	}

	if err := s.db.TouchTopicStudied(ctx, userID, card.Subject, card.Topic); err != nil {
		log.Warn("failed to touch topic study time: %v", err)
	}

	log.Debug("card reviewed: id=%s quality=%d next_interval=%d", cardID, quality, card.IntervalDays)
	return card, nil
}

func (s *reviewService) Stats(ctx context.Context, userID string) (models.CardStats, error) {
	stats, err := s.db.ReviewCardStats(ctx, userID, s.now())
	if err != nil {
		return models.CardStats{}, errors.NewInternalError(err)
	}
	return stats, nil
}

func (s *reviewService) List(ctx context.Context, userID, subject, topic string, limit int) ([]models.ReviewCard, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	cards, err := s.db.ListReviewCards(ctx, userID, subject, topic, limit)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return cards, nil
}

func (s *reviewService) Delete(ctx context.Context, userID, cardID string) error {
	deleted, err := s.db.DeleteReviewCard(ctx, userID, cardID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !deleted {
		return errors.NewNotFoundError("card", cardID)
	}
	return nil
}

// GenerateFromChunk asks the collaborator for 3-5 cards over one chunk.
// Malformed collaborator output yields zero cards, logged, not an error.
func (s *reviewService) GenerateFromChunk(ctx context.Context, userID, chunkID string) ([]models.ReviewCard, error) {
	log := logger.FromContext(ctx)

	chunk, err := s.db.KnowledgeChunk(ctx, userID, chunkID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if chunk == nil {
		return nil, errors.NewNotFoundError("chunk", chunkID)
	}

	generated, err := s.ai.GenerateCards(ctx, chunk.Subject, chunk.Topic, chunk.Content)
	if err != nil {
		log.Warn("card generation failed for chunk %s: %v", chunkID, err)
		return nil, nil
	}

	now := s.now()
	var cards []models.ReviewCard
	for _, g := range generated {
		if len(cards) >= maxCardsPerChunk {
			break
		}
		if g.Front == "" || g.Back == "" {
			log.Warn("skipping malformed card from chunk %s", chunkID)
			continue
		}
		state := review.NewState(now)
		cards = append(cards, models.ReviewCard{
			UserID:       userID,
			ChunkID:      chunk.ID,
			Subject:      chunk.Subject,
			Topic:        chunk.Topic,
			Front:        g.Front,
			Back:         g.Back,
			CardType:     normalizeCardType(g.CardType),
			EaseFactor:   state.EaseFactor,
			IntervalDays: state.IntervalDays,
			Repetitions:  state.Repetitions,
			NextReview:   state.NextReview,
		})
	}
	if len(cards) == 0 {
		log.Warn("chunk %s produced no usable cards", chunkID)
		return nil, nil
	}

	if err := s.db.InsertReviewCards(ctx, cards); err != nil {
		return nil, errors.NewInternalError(err)
	}
	log.Debug("generated %d cards from chunk %s", len(cards), chunkID)
	return cards, nil
}

// GenerateForSubject walks the subject's weakest topics that have source
// material and generates cards chunk by chunk. Returns cards created.
func (s *reviewService) GenerateForSubject(ctx context.Context, userID, subject string) (int, error) {
	log := logger.FromContext(ctx)

	targets, _, err := rankTargets(ctx, s.db, userID, subject)
	if err != nil {
		return 0, err
	}

	created := 0
	seen := 0
	for _, t := range targets {
		if seen >= generateChunksPerPass {
			break
		}
		if t.ChunksAvailable == 0 {
			continue
		}
		chunks, err := s.db.ChunksByTopic(ctx, userID, subject, t.Topic, 2)
		if err != nil {
			return created, errors.NewInternalError(err)
		}
		for _, c := range chunks {
			if seen >= generateChunksPerPass {
				break
			}
			covered, err := s.db.ChunkHasCards(ctx, userID, c.ID)
			if err != nil {
				return created, errors.NewInternalError(err)
			}
			if covered {
				continue
			}
			seen++
			cards, err := s.GenerateFromChunk(ctx, userID, c.ID)
			if err != nil {
				log.Warn("generation failed for chunk %s: %v", c.ID, err)
				continue
			}
			created += len(cards)
		}
	}
	log.Info("subject card generation: subject=%s chunks=%d cards=%d", subject, seen, created)
	return created, nil
}

// CompleteSession records a finished review session on the reward ledger.
func (s *reviewService) CompleteSession(ctx context.Context, userID string, cardsReviewed int) (*AwardResult, error) {
	if cardsReviewed <= 0 {
		return nil, errors.NewValidationError("cards_reviewed", "must be positive")
	}
	return s.rewards.Award(ctx, userID, rewards.ActivityFlashcardSession, "",
		cardsReviewed*sessionPointsPerCard, "Completed a review session",
		map[string]any{"cards_reviewed": cardsReviewed}, nil)
}

func normalizeCardType(t string) string {
	switch t {
	case models.CardRule, models.CardCaseHolding, models.CardElementList, models.CardConcept:
		return t
	default:
		return models.CardConcept
	}
}
