package api

import "net/http"

func (s *Server) handleRewardsSummary(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	summary, err := s.Rewards.Summary(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRewardsLedger(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	activityType := r.URL.Query().Get("activity_type")
	limit := queryInt(r, "limit", 50)

	entries, balance, err := s.Rewards.Ledger(r.Context(), userID, activityType, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entries": entries,
		"balance": balance,
	})
}

func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	achievements, err := s.Rewards.Achievements(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	unlocked := 0
	for _, a := range achievements {
		if a.Unlocked() {
			unlocked++
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"achievements": achievements,
		"unlocked":     unlocked,
		"total":        len(achievements),
	})
}
