package rewards

// AchievementDef is one entry of the fixed achievement catalog.
type AchievementDef struct {
	Key         string
	Title       string
	Description string
	Icon        string
	Rarity      string
	Points      int
	Target      int
}

// Rarity tiers, cosmetic only.
const (
	RarityCommon    = "common"
	RarityUncommon  = "uncommon"
	RarityRare      = "rare"
	RarityEpic      = "epic"
	RarityLegendary = "legendary"
)

// Activity types recognized by the ledger.
const (
	ActivityExamComplete     = "exam_complete"
	ActivityFlashcardSession = "flashcard_session"
	ActivityTutorSession     = "tutor_session"
	ActivityPastTestUpload   = "past_test_upload"
	ActivityDocumentUpload   = "document_upload"
)

// Catalog is the full achievement set, seeded per learner on first use.
var Catalog = []AchievementDef{
	{"first_exam", "First Steps", "Complete your first practice exam", "🎯", RarityCommon, 25, 1},
	{"first_upload", "Scholar's Library", "Upload your first study document", "📚", RarityCommon, 50, 1},
	{"streak_3", "Consistency", "Maintain a 3-day study streak", "🔥", RarityCommon, 30, 3},
	{"streak_7", "Dedicated", "Maintain a 7-day study streak", "⚡", RarityUncommon, 75, 7},
	{"exams_10", "Exam Veteran", "Complete 10 practice exams", "📝", RarityUncommon, 100, 10},
	{"flashcards_100", "Card Shark", "Review 100 flashcards", "🃏", RarityUncommon, 50, 100},
	{"mastery_first_80", "Subject Master", "Reach 80% mastery in any topic", "🌟", RarityRare, 75, 1},
	{"past_tests_5", "Pattern Hunter", "Analyze 5 past exams", "🔍", RarityRare, 150, 5},
	{"tutor_20", "Socratic Scholar", "Complete 20 tutoring sessions", "🦉", RarityRare, 100, 20},
	{"streak_30", "Unstoppable", "Maintain a 30-day study streak", "💎", RarityEpic, 300, 30},
	{"exams_50", "Exam Machine", "Complete 50 practice exams", "⚖️", RarityEpic, 250, 50},
	{"flashcards_1000", "Memory Palace", "Review 1000 flashcards", "🏛️", RarityEpic, 200, 1000},
	{"mastery_all_50", "Well Rounded", "Reach 50% mastery in every subject", "🎓", RarityEpic, 200, 1},
	{"past_tests_10", "Professor Whisperer", "Analyze 10 past exams", "🧠", RarityLegendary, 400, 10},
	{"perfect_exam", "Flawless", "Score 100% on a practice exam", "👑", RarityLegendary, 500, 1},
}

// ActivityAchievements maps an activity type to the counter achievements it
// advances, in unlock-check order.
var ActivityAchievements = map[string][]string{
	ActivityExamComplete:     {"first_exam", "exams_10", "exams_50"},
	ActivityFlashcardSession: {"flashcards_100", "flashcards_1000"},
	ActivityTutorSession:     {"tutor_20"},
	ActivityPastTestUpload:   {"first_upload", "past_tests_5", "past_tests_10"},
}

// CatalogDef returns the catalog entry for a key, or nil when unknown.
func CatalogDef(key string) *AchievementDef {
	for i := range Catalog {
		if Catalog[i].Key == key {
			return &Catalog[i]
		}
	}
	return nil
}
