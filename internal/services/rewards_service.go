package services

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"time"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/rewards"
)

const (
	randomBonusChance = 0.15
	randomBonusMin    = 5
	randomBonusMax    = 50
)

// AwardResult reports everything one award did, for surfacing to the UI.
type AwardResult struct {
	PointsEarned   int                  `json:"points_earned"`
	Balance        int                  `json:"balance"`
	RandomBonus    int                  `json:"random_bonus,omitempty"`
	StreakExtended bool                 `json:"streak_extended"`
	CurrentStreak  int                  `json:"current_streak"`
	StreakBonus    int                  `json:"streak_bonus,omitempty"`
	Unlocked       []models.Achievement `json:"unlocked_achievements"`
	LevelUp        bool                 `json:"level_up"`
	Level          int                  `json:"level"`
	Title          string               `json:"title"`
}

// RewardsSummary is the profile view: balance, streaks, level progress, and
// achievement counts.
type RewardsSummary struct {
	Balance           int     `json:"balance"`
	TotalEarned       int     `json:"total_earned"`
	Level             int     `json:"level"`
	Title             string  `json:"title"`
	NextLevelAt       int     `json:"next_level_at"`
	CurrentStreak     int     `json:"current_streak"`
	LongestStreak     int     `json:"longest_streak"`
	AchievementsTotal int     `json:"achievements_total"`
	AchievementsDone  int     `json:"achievements_unlocked"`
	LastActiveDate    string  `json:"last_active_date,omitempty"`
	LevelProgress     float64 `json:"level_progress"`
}

// RewardsService owns the point ledger, streaks, achievements, and levels.
type RewardsService interface {
	// Award records one activity: base points, possible random bonus, streak
	// advancement, counter achievements, and any forced special unlocks, all
	// in a single transaction.
	Award(ctx context.Context, userID, activityType, activityID string, basePoints int, description string, metadata map[string]any, specialUnlocks []string) (*AwardResult, error)
	Summary(ctx context.Context, userID string) (*RewardsSummary, error)
	Ledger(ctx context.Context, userID, activityType string, limit int) ([]models.LedgerEntry, int, error)
	Achievements(ctx context.Context, userID string) ([]models.Achievement, error)
}

type rewardsService struct {
	db *db.DB
	// rollBonus returns the random bonus amount for one award, 0 for none.
	// Swappable in tests.
	rollBonus func() int
	now       func() time.Time
}

// NewRewardsService creates a RewardsService.
func NewRewardsService(d *db.DB) RewardsService {
	return &rewardsService{
		db: d,
		rollBonus: func() int {
			if rand.Float64() >= randomBonusChance {
				return 0
			}
			return randomBonusMin + rand.Intn(randomBonusMax-randomBonusMin+1)
		},
		now: time.Now,
	}
}

func (s *rewardsService) Award(ctx context.Context, userID, activityType, activityID string, basePoints int, description string, metadata map[string]any, specialUnlocks []string) (*AwardResult, error) {
	log := logger.FromContext(ctx)
	log.Debug("awarding points: user=%s activity=%s base=%d", userID, activityType, basePoints)

	if basePoints < 0 {
		return nil, errors.NewValidationError("points", "must be non-negative")
	}

	now := s.now()
	result := &AwardResult{Unlocked: []models.Achievement{}}

	err := s.db.Tx(ctx, func(tx *sql.Tx) error {
		profile, err := db.EnsureRewardsProfile(ctx, tx, userID)
		if err != nil {
			return err
		}

		earned := 0
		add := func(e models.LedgerEntry) error {
			e.UserID = userID
			if err := db.InsertLedgerEntry(ctx, tx, &e); err != nil {
				return err
			}
			earned += e.Amount
			return nil
		}

		if err := add(models.LedgerEntry{
			Amount:       basePoints,
			ActivityType: activityType,
			ActivityID:   activityID,
			Description:  description,
			Metadata:     metadata,
		}); err != nil {
			return err
		}

		if bonus := s.rollBonus(); bonus > 0 {
			result.RandomBonus = bonus
			if err := add(models.LedgerEntry{
				Amount:       bonus,
				ActivityType: activityType,
				ActivityID:   activityID,
				Description:  "Lucky bonus!",
				BonusType:    models.BonusRandom,
			}); err != nil {
				return err
			}
		}

		streak := rewards.StreakState{
			Current:        profile.CurrentStreak,
			Longest:        profile.LongestStreak,
			LastActiveDate: profile.LastActiveDate,
		}
		streak, upd := rewards.AdvanceStreak(streak, now)
		profile.CurrentStreak = streak.Current
		profile.LongestStreak = streak.Longest
		profile.LastActiveDate = streak.LastActiveDate
		result.StreakExtended = upd.IsNewDay
		result.CurrentStreak = streak.Current

		if upd.IsNewDay {
			result.StreakBonus = upd.Bonus
			if err := add(models.LedgerEntry{
				Amount:       upd.Bonus,
				ActivityType: "daily_streak",
				Description:  fmt.Sprintf("Day %d streak bonus", streak.Current),
				BonusType:    models.BonusStreak,
			}); err != nil {
				return err
			}
			for _, key := range []string{"streak_3", "streak_7", "streak_30"} {
				unlocked, err := s.raiseProgress(ctx, tx, userID, key, streak.Current, true)
				if err != nil {
					return err
				}
				if unlocked != nil {
					result.Unlocked = append(result.Unlocked, *unlocked)
				}
			}
		}

		increment := 1
		if activityType == rewards.ActivityFlashcardSession {
			if n, ok := metadataInt(metadata, "cards_reviewed"); ok && n > 0 {
				increment = n
			}
		}
		for _, key := range rewards.ActivityAchievements[activityType] {
			unlocked, err := s.incrementProgress(ctx, tx, userID, key, increment)
			if err != nil {
				return err
			}
			if unlocked != nil {
				result.Unlocked = append(result.Unlocked, *unlocked)
			}
		}

		for _, key := range specialUnlocks {
			unlocked, err := s.raiseProgress(ctx, tx, userID, key, 0, false)
			if err != nil {
				return err
			}
			if unlocked != nil {
				result.Unlocked = append(result.Unlocked, *unlocked)
			}
		}

		for _, a := range result.Unlocked {
			if err := add(models.LedgerEntry{
				Amount:       a.PointsAwarded,
				ActivityType: "achievement_unlock",
				ActivityID:   a.Key,
				Description:  fmt.Sprintf("Achievement unlocked: %s", a.Title),
				BonusType:    models.BonusFirstTime,
			}); err != nil {
				return err
			}
		}

		oldLevel := profile.Level
		profile.TotalEarned += earned
		profile.Level, profile.ActiveTitle = rewards.LevelFor(profile.TotalEarned)
		result.PointsEarned = earned
		result.LevelUp = profile.Level > oldLevel
		result.Level = profile.Level
		result.Title = profile.ActiveTitle

		if err := db.SaveRewardsProfile(ctx, tx, profile); err != nil {
			return err
		}

		balance, err := db.LedgerBalance(ctx, tx, userID)
		if err != nil {
			return err
		}
		result.Balance = balance
		return nil
	})
	if err != nil {
		log.Error("award failed: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Debug("awarded %d points to %s (streak=%d, unlocked=%d)",
		result.PointsEarned, userID, result.CurrentStreak, len(result.Unlocked))
	return result, nil
}

// incrementProgress adds to a counter achievement, unlocking it when the
// target is reached. Returns the achievement only on a fresh unlock.
func (s *rewardsService) incrementProgress(ctx context.Context, q db.Querier, userID, key string, by int) (*models.Achievement, error) {
	a, err := db.AchievementByKey(ctx, q, userID, key)
	if err != nil || a == nil {
		return nil, err
	}
	if a.Unlocked() {
		return nil, nil
	}
	a.CurrentValue += by
	return s.maybeUnlock(ctx, q, a)
}

// raiseProgress lifts progress to at least value (force unlocks when force is
// false and value is 0, used for one-shot special achievements).
func (s *rewardsService) raiseProgress(ctx context.Context, q db.Querier, userID, key string, value int, clampToTarget bool) (*models.Achievement, error) {
	a, err := db.AchievementByKey(ctx, q, userID, key)
	if err != nil || a == nil {
		return nil, err
	}
	if a.Unlocked() {
		return nil, nil
	}
	if !clampToTarget {
		value = a.TargetValue
	}
	if value > a.CurrentValue {
		a.CurrentValue = value
	}
	return s.maybeUnlock(ctx, q, a)
}

func (s *rewardsService) maybeUnlock(ctx context.Context, q db.Querier, a *models.Achievement) (*models.Achievement, error) {
	var unlocked *models.Achievement
	if a.CurrentValue >= a.TargetValue {
		if a.CurrentValue > a.TargetValue {
			a.CurrentValue = a.TargetValue
		}
		now := s.now()
		a.UnlockedAt = &now
		unlocked = a
	}
	if err := db.SaveAchievementProgress(ctx, q, *a); err != nil {
		return nil, err
	}
	return unlocked, nil
}

func (s *rewardsService) Summary(ctx context.Context, userID string) (*RewardsSummary, error) {
	profile, err := db.EnsureRewardsProfile(ctx, s.db, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	balance, err := db.LedgerBalance(ctx, s.db, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	achievements, err := db.ListAchievements(ctx, s.db, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	done := 0
	for _, a := range achievements {
		if a.Unlocked() {
			done++
		}
	}

	next := rewards.NextThreshold(profile.TotalEarned)
	progress := 1.0
	if next > 0 {
		progress = float64(profile.TotalEarned) / float64(next)
	}

	return &RewardsSummary{
		Balance:           balance,
		TotalEarned:       profile.TotalEarned,
		Level:             profile.Level,
		Title:             profile.ActiveTitle,
		NextLevelAt:       next,
		CurrentStreak:     profile.CurrentStreak,
		LongestStreak:     profile.LongestStreak,
		AchievementsTotal: len(achievements),
		AchievementsDone:  done,
		LastActiveDate:    profile.LastActiveDate,
		LevelProgress:     progress,
	}, nil
}

func (s *rewardsService) Ledger(ctx context.Context, userID, activityType string, limit int) ([]models.LedgerEntry, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	entries, err := db.ListLedger(ctx, s.db, userID, activityType, limit)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	balance, err := db.LedgerBalance(ctx, s.db, userID)
	if err != nil {
		return nil, 0, errors.NewInternalError(err)
	}
	return entries, balance, nil
}

func (s *rewardsService) Achievements(ctx context.Context, userID string) ([]models.Achievement, error) {
	out, err := db.ListAchievements(ctx, s.db, userID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return out, nil
}

func metadataInt(m map[string]any, key string) (int, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
