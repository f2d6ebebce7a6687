package services

import (
	"context"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/rewards"
	"github.com/jpaulsen/lawflow/internal/taxonomy"
)

// SeedLearner creates the subject/topic mastery rows, rewards profile, and
// achievement rows for a learner. Safe to call repeatedly; existing rows are
// left untouched.
func SeedLearner(ctx context.Context, d *db.DB, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("seed")

	for _, subject := range taxonomy.Subjects {
		if err := d.EnsureSubjectMastery(ctx, userID, subject.Key, subject.DisplayName); err != nil {
			return err
		}
		for _, topic := range subject.Topics {
			if err := d.EnsureTopicMastery(ctx, userID, subject.Key, topic.Key, topic.DisplayName); err != nil {
				return err
			}
		}
	}

	if _, err := db.EnsureRewardsProfile(ctx, d, userID); err != nil {
		return err
	}
	for _, def := range rewards.Catalog {
		a := models.Achievement{
			UserID:        userID,
			Key:           def.Key,
			Title:         def.Title,
			Description:   def.Description,
			Icon:          def.Icon,
			Rarity:        def.Rarity,
			PointsAwarded: def.Points,
			TargetValue:   def.Target,
		}
		if err := db.InsertAchievement(ctx, d, a); err != nil {
			return err
		}
	}

	log.Debug("learner seeded: user_id=%s subjects=%d", userID, len(taxonomy.Subjects))
	return nil
}
