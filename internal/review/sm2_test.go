package review_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jpaulsen/lawflow/internal/review"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestApply_FirstSuccessfulReview(t *testing.T) {
	s := review.NewState(now)
	got := review.Apply(s, 4, now)

	assert.Equal(t, 1, got.Repetitions)
	assert.Equal(t, 1, got.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 1), got.NextReview)
	assert.InDelta(t, 2.5, got.EaseFactor, 1e-9, "quality 4 leaves ease unchanged")
}

func TestApply_SecondReviewIntervalThree(t *testing.T) {
	s := review.Apply(review.NewState(now), 4, now)
	got := review.Apply(s, 4, now)

	assert.Equal(t, 2, got.Repetitions)
	assert.Equal(t, 3, got.IntervalDays)
}

func TestApply_ThirdReviewScalesByEase(t *testing.T) {
	s := review.NewState(now)
	s = review.Apply(s, 5, now) // ease 2.6
	s = review.Apply(s, 5, now) // ease 2.7, interval 3
	got := review.Apply(s, 5, now)

	assert.Equal(t, 3, got.Repetitions)
	// round(3 * 2.8) = 8
	assert.InDelta(t, 2.8, got.EaseFactor, 1e-9)
	assert.Equal(t, 8, got.IntervalDays)
	assert.True(t, review.IsMature(got))
}

func TestApply_LapseResetsButKeepsEasePenalty(t *testing.T) {
	s := review.State{EaseFactor: 2.5, IntervalDays: 20, Repetitions: 5, NextReview: now}
	got := review.Apply(s, 1, now)

	assert.Equal(t, 0, got.Repetitions)
	assert.Equal(t, 1, got.IntervalDays)
	assert.Equal(t, now.AddDate(0, 0, 1), got.NextReview)
	// 2.5 + (0.1 - 4*(0.08 + 4*0.02)) = 2.5 - 0.54 = 1.96
	assert.InDelta(t, 1.96, got.EaseFactor, 1e-9)
}

func TestApply_EaseNeverBelowFloor(t *testing.T) {
	s := review.State{EaseFactor: review.MinEaseFactor, IntervalDays: 1, Repetitions: 0, NextReview: now}
	for i := 0; i < 10; i++ {
		s = review.Apply(s, 0, now)
		assert.GreaterOrEqual(t, s.EaseFactor, review.MinEaseFactor)
	}
	assert.InDelta(t, review.MinEaseFactor, s.EaseFactor, 1e-9)
}

func TestApply_QualityClamped(t *testing.T) {
	s := review.NewState(now)
	high := review.Apply(s, 9, now)
	five := review.Apply(s, 5, now)
	assert.Equal(t, five, high)

	low := review.Apply(s, -3, now)
	zero := review.Apply(s, 0, now)
	assert.Equal(t, zero, low)
}

func TestApply_IntervalGrowsWhileQualityHigh(t *testing.T) {
	s := review.NewState(now)
	prev := 0
	for i := 0; i < 8; i++ {
		s = review.Apply(s, 5, now)
		assert.GreaterOrEqual(t, s.IntervalDays, prev)
		prev = s.IntervalDays
	}
	assert.Greater(t, s.IntervalDays, 30, "sustained quality 5 should push interval past a month")
}

func TestMaturityPartition(t *testing.T) {
	newCard := review.NewState(now)
	learning := review.State{EaseFactor: 2.5, IntervalDays: 3, Repetitions: 2}
	mature := review.State{EaseFactor: 2.5, IntervalDays: 15, Repetitions: 4}

	for _, tc := range []struct {
		name                    string
		s                       review.State
		isNew, isLearn, isMatur bool
	}{
		{"new", newCard, true, false, false},
		{"learning", learning, false, true, false},
		{"mature", mature, false, false, true},
	} {
		assert.Equal(t, tc.isNew, review.IsNew(tc.s), tc.name)
		assert.Equal(t, tc.isLearn, review.IsLearning(tc.s), tc.name)
		assert.Equal(t, tc.isMatur, review.IsMature(tc.s), tc.name)
	}
}
