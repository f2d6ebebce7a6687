package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpaulsen/lawflow/internal/worker"
)

func (s *Server) handleTeachingPlan(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := chi.URLParam(r, "subject")
	maxTopics := queryInt(r, "max_topics", 0)
	budget := queryInt(r, "time_budget", 0)

	plan, err := s.Plans.TeachingPlan(r.Context(), userID, subject, maxTopics, budget)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleNextTopic(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := chi.URLParam(r, "subject")

	target, session, err := s.Plans.NextTopic(r.Context(), userID, subject)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if target == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"message": "No topics available for this subject.",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"target":       target,
		"auto_session": session,
	})
}

func (s *Server) handleAnalyzeExam(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	documentID := chi.URLParam(r, "documentID")

	// Verify the document exists before queueing; the analysis itself runs on
	// the ingest pool.
	if _, err := s.Documents.Get(r.Context(), userID, documentID); err != nil {
		handleError(w, r, err)
		return
	}

	s.IngestPool.Submit(&worker.AnalyzeExamJob{
		Blueprints: s.Blueprints,
		UserID:     userID,
		DocumentID: documentID,
	})
	respondJSON(w, http.StatusAccepted, map[string]any{
		"status":      "queued",
		"document_id": documentID,
	})
}

func (s *Server) handleListBlueprints(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := r.URL.Query().Get("subject")

	blueprints, err := s.Blueprints.List(r.Context(), userID, subject)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"blueprints": blueprints})
}
