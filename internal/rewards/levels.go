// Package rewards holds the pure gamification rules: level thresholds, streak
// transitions, and the achievement catalog. Persistence lives in internal/db;
// everything here is deterministic given its inputs.
package rewards

// Level pairs a lifetime-points threshold with its rank and title.
type Level struct {
	Threshold int
	Level     int
	Title     string
}

// levels is ordered descending by threshold; LevelFor takes the first match.
var levels = []Level{
	{25000, 10, "Supreme Scholar"},
	{18000, 9, "Distinguished Jurist"},
	{12000, 8, "Partner"},
	{8000, 7, "Senior Associate"},
	{5000, 6, "Law Review Editor"},
	{3000, 5, "Moot Court Champion"},
	{1500, 4, "Case Expert"},
	{750, 3, "Legal Scholar"},
	{250, 2, "Diligent Student"},
	{0, 1, "Law Student"},
}

// LevelFor maps lifetime points earned (spending never demotes) to the
// learner's level and title.
func LevelFor(totalEarned int) (level int, title string) {
	for _, l := range levels {
		if totalEarned >= l.Threshold {
			return l.Level, l.Title
		}
	}
	return 1, "Law Student"
}

// NextThreshold returns the points needed for the next level, or 0 when the
// learner is already at the top rank.
func NextThreshold(totalEarned int) int {
	next := 0
	for _, l := range levels {
		if totalEarned >= l.Threshold {
			return next
		}
		next = l.Threshold
	}
	return next
}
