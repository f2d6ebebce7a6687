package rewards_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jpaulsen/lawflow/internal/rewards"
)

func TestLevelFor(t *testing.T) {
	tests := []struct {
		earned int
		level  int
		title  string
	}{
		{0, 1, "Law Student"},
		{249, 1, "Law Student"},
		{250, 2, "Diligent Student"},
		{750, 3, "Legal Scholar"},
		{1500, 4, "Case Expert"},
		{2999, 4, "Case Expert"},
		{3000, 5, "Moot Court Champion"},
		{5000, 6, "Law Review Editor"},
		{8000, 7, "Senior Associate"},
		{12000, 8, "Partner"},
		{18000, 9, "Distinguished Jurist"},
		{25000, 10, "Supreme Scholar"},
		{99999, 10, "Supreme Scholar"},
	}
	for _, tt := range tests {
		level, title := rewards.LevelFor(tt.earned)
		assert.Equal(t, tt.level, level, "earned=%d", tt.earned)
		assert.Equal(t, tt.title, title, "earned=%d", tt.earned)
	}
}

func TestNextThreshold(t *testing.T) {
	assert.Equal(t, 250, rewards.NextThreshold(0))
	assert.Equal(t, 750, rewards.NextThreshold(300))
	assert.Equal(t, 25000, rewards.NextThreshold(20000))
	assert.Equal(t, 0, rewards.NextThreshold(25000), "top rank has no next threshold")
}

func TestAdvanceStreak_SameDayNoOp(t *testing.T) {
	day := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	s := rewards.StreakState{Current: 4, Longest: 6, LastActiveDate: "2026-04-02"}

	got, upd := rewards.AdvanceStreak(s, day)
	assert.False(t, upd.IsNewDay)
	assert.Zero(t, upd.Bonus)
	assert.Equal(t, s, got)
}

func TestAdvanceStreak_ConsecutiveDayExtends(t *testing.T) {
	day := time.Date(2026, 4, 2, 0, 5, 0, 0, time.UTC)
	s := rewards.StreakState{Current: 4, Longest: 6, LastActiveDate: "2026-04-01"}

	got, upd := rewards.AdvanceStreak(s, day)
	assert.True(t, upd.IsNewDay)
	assert.Equal(t, 5, got.Current)
	assert.Equal(t, 6, got.Longest)
	assert.Equal(t, 50, upd.Bonus)
}

func TestAdvanceStreak_GapResets(t *testing.T) {
	day := time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)
	s := rewards.StreakState{Current: 9, Longest: 9, LastActiveDate: "2026-04-01"}

	got, upd := rewards.AdvanceStreak(s, day)
	assert.True(t, upd.IsNewDay)
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 9, got.Longest, "longest survives a reset")
	assert.Equal(t, 10, upd.Bonus)
}

func TestAdvanceStreak_BonusCapsAtSevenDays(t *testing.T) {
	day := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	s := rewards.StreakState{Current: 20, Longest: 20, LastActiveDate: "2026-04-01"}

	got, upd := rewards.AdvanceStreak(s, day)
	assert.Equal(t, 21, got.Current)
	assert.Equal(t, 21, got.Longest)
	assert.Equal(t, 70, upd.Bonus)
}

func TestAdvanceStreak_FirstEverActivity(t *testing.T) {
	day := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	got, upd := rewards.AdvanceStreak(rewards.StreakState{}, day)

	assert.True(t, upd.IsNewDay)
	assert.Equal(t, 1, got.Current)
	assert.Equal(t, 1, got.Longest)
	assert.Equal(t, "2026-04-02", got.LastActiveDate)
	assert.Equal(t, 10, upd.Bonus)
}

func TestCatalog_Integrity(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range rewards.Catalog {
		assert.False(t, seen[def.Key], "duplicate key %q", def.Key)
		seen[def.Key] = true
		assert.NotEmpty(t, def.Title, def.Key)
		assert.Greater(t, def.Points, 0, def.Key)
		assert.Greater(t, def.Target, 0, def.Key)
	}
	assert.Len(t, rewards.Catalog, 15)

	for activity, keys := range rewards.ActivityAchievements {
		for _, k := range keys {
			assert.NotNil(t, rewards.CatalogDef(k), "activity %s references unknown achievement %s", activity, k)
		}
	}
}
