package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/services"
)

func (s *Server) handleGenerateExam(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	var req services.GenerateExamRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Subject == "" {
		handleError(w, r, errors.NewValidationError("subject", "is required"))
		return
	}

	results, err := s.Exams.Generate(r.Context(), userID, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, results)
}

func (s *Server) handleAnswerQuestion(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	var req struct {
		QuestionID string `json:"question_id"`
		Answer     string `json:"answer"`
	}
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.QuestionID == "" {
		handleError(w, r, errors.NewValidationError("question_id", "is required"))
		return
	}

	question, err := s.Exams.Answer(r.Context(), userID, req.QuestionID, req.Answer)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, question)
}

func (s *Server) handleCompleteExam(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	assessmentID := chi.URLParam(r, "id")

	var req struct {
		TimeTakenMinutes *float64 `json:"time_taken_minutes"`
	}
	// Body is optional here.
	_ = decodeBody(r, &req)

	results, award, err := s.Exams.Complete(r.Context(), userID, assessmentID, req.TimeTakenMinutes)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"rewards": award,
	})
}

func (s *Server) handleExamResults(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	assessmentID := chi.URLParam(r, "id")

	results, err := s.Exams.Results(r.Context(), userID, assessmentID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleExamHistory(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	subject := r.URL.Query().Get("subject")
	limit := queryInt(r, "limit", 20)

	history, err := s.Exams.History(r.Context(), userID, subject, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"assessments": history})
}
