package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/worker"
)

func (s *Server) handleDueCards(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := r.URL.Query().Get("subject")
	limit := queryInt(r, "limit", 20)

	cards, err := s.Review.Due(r.Context(), userID, subject, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handleCardStats(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	stats, err := s.Review.Stats(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := r.URL.Query().Get("subject")
	topic := r.URL.Query().Get("topic")
	limit := queryInt(r, "limit", 100)

	cards, err := s.Review.List(r.Context(), userID, subject, topic, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handleReviewCard(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	cardID := chi.URLParam(r, "id")

	var req struct {
		Quality *int `json:"quality"`
	}
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Quality == nil {
		handleError(w, r, errors.NewValidationError("quality", "is required"))
		return
	}

	card, err := s.Review.Review(r.Context(), userID, cardID, *req.Quality)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	cardID := chi.URLParam(r, "id")

	if err := s.Review.Delete(r.Context(), userID, cardID); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (s *Server) handleGenerateSubjectCards(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := chi.URLParam(r, "subject")

	s.GenPool.Submit(&worker.GenerateCardsJob{
		Review:  s.Review,
		UserID:  userID,
		Subject: subject,
	})
	respondJSON(w, http.StatusAccepted, map[string]any{
		"status":  "queued",
		"subject": subject,
	})
}

func (s *Server) handleGenerateChunkCards(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	chunkID := chi.URLParam(r, "chunkID")

	cards, err := s.Review.GenerateFromChunk(r.Context(), userID, chunkID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"cards": cards, "count": len(cards)})
}

func (s *Server) handleCompleteSession(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	var req struct {
		CardsReviewed int `json:"cards_reviewed"`
	}
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	award, err := s.Review.CompleteSession(r.Context(), userID, req.CardsReviewed)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, award)
}
