package rewards

import "time"

// streakBonusRate is points per streak day, capped at streakBonusCap days.
const (
	streakBonusRate = 10
	streakBonusCap  = 7
)

// StreakState is the persisted daily-streak state. LastActiveDate is a
// calendar date in YYYY-MM-DD form; comparisons are by date, not instant, so
// two activities minutes apart across midnight count as separate days.
type StreakState struct {
	Current        int
	Longest        int
	LastActiveDate string
}

// StreakUpdate describes what a streak transition did.
type StreakUpdate struct {
	IsNewDay bool
	Bonus    int
}

// AdvanceStreak applies one activity on the given day. Same-day activity is a
// no-op; consecutive-day activity extends the streak and pays a bonus; a gap
// resets to 1.
func AdvanceStreak(s StreakState, today time.Time) (StreakState, StreakUpdate) {
	day := today.Format("2006-01-02")
	if s.LastActiveDate == day {
		return s, StreakUpdate{}
	}

	yesterday := today.AddDate(0, 0, -1).Format("2006-01-02")
	if s.LastActiveDate == yesterday {
		s.Current++
	} else {
		s.Current = 1
	}
	s.LastActiveDate = day
	if s.Current > s.Longest {
		s.Longest = s.Current
	}

	bonus := streakBonusRate * s.Current
	if s.Current > streakBonusCap {
		bonus = streakBonusRate * streakBonusCap
	}
	return s, StreakUpdate{IsNewDay: true, Bonus: bonus}
}
