package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpaulsen/lawflow/internal/services"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	dashboard, err := s.Progress.Dashboard(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleMastery(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	subjects, err := s.Progress.Mastery(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

func (s *Server) handleSubjectMastery(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := chi.URLParam(r, "subject")

	detail, err := s.Progress.SubjectDetail(r.Context(), userID, subject)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleWeaknesses(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := r.URL.Query().Get("subject")
	limit := queryInt(r, "limit", 10)

	topics, err := s.Progress.Weaknesses(r.Context(), userID, subject, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"weaknesses": topics})
}

func (s *Server) handleStudySignal(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	var sig services.StudySignal
	if err := decodeBody(r, &sig); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.Progress.RecordStudySignal(r.Context(), userID, sig); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"recorded": true})
}
