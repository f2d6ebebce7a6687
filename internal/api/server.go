package api

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/services"
	"github.com/jpaulsen/lawflow/internal/worker"
)

// Server wires the HTTP surface to the services.
type Server struct {
	DB            *db.DB
	Plans         services.PlanService
	Blueprints    services.BlueprintService
	Exams         services.ExamService
	Review        services.ReviewService
	Rewards       services.RewardsService
	Documents     services.DocumentService
	Progress      services.ProgressService
	IngestPool    *worker.Pool
	GenPool       *worker.Pool
	DefaultUserID string

	seedMu sync.Mutex
	seeded map[string]bool
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(s.learnerMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/teach", func(r chi.Router) {
			r.Get("/plan/{subject}", s.handleTeachingPlan)
			r.Get("/next/{subject}", s.handleNextTopic)
			r.Post("/exams/{documentID}/analyze", s.handleAnalyzeExam)
			r.Get("/blueprints", s.handleListBlueprints)
		})

		r.Route("/exams", func(r chi.Router) {
			r.Post("/generate", s.handleGenerateExam)
			r.Post("/answer", s.handleAnswerQuestion)
			r.Post("/{id}/complete", s.handleCompleteExam)
			r.Get("/{id}/results", s.handleExamResults)
			r.Get("/history", s.handleExamHistory)
		})

		r.Route("/review", func(r chi.Router) {
			r.Get("/due", s.handleDueCards)
			r.Get("/stats", s.handleCardStats)
			r.Get("/cards", s.handleListCards)
			r.Post("/cards/{id}/review", s.handleReviewCard)
			r.Delete("/cards/{id}", s.handleDeleteCard)
			r.Post("/generate/subject/{subject}", s.handleGenerateSubjectCards)
			r.Post("/generate/chunk/{chunkID}", s.handleGenerateChunkCards)
			r.Post("/session/complete", s.handleCompleteSession)
		})

		r.Route("/rewards", func(r chi.Router) {
			r.Get("/summary", s.handleRewardsSummary)
			r.Get("/ledger", s.handleRewardsLedger)
			r.Get("/achievements", s.handleAchievements)
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", s.handleUploadDocument)
			r.Get("/", s.handleListDocuments)
			r.Get("/{id}", s.handleGetDocument)
			r.Get("/{id}/chunks", s.handleDocumentChunks)
			r.Delete("/{id}", s.handleDeleteDocument)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/mastery", s.handleMastery)
			r.Get("/mastery/{subject}", s.handleSubjectMastery)
			r.Get("/weaknesses", s.handleWeaknesses)
			r.Post("/signal", s.handleStudySignal)
		})
	})

	return r
}
