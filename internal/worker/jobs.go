package worker

import (
	"context"

	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/services"
)

// ProcessDocumentJob runs ingestion (chunk + tag) for one uploaded document.
type ProcessDocumentJob struct {
	Documents  services.DocumentService
	UserID     string
	DocumentID string
}

func (j *ProcessDocumentJob) Name() string { return "process_document" }

func (j *ProcessDocumentJob) Run(ctx context.Context) error {
	return j.Documents.Process(ctx, j.UserID, j.DocumentID)
}

// AnalyzeExamJob extracts a blueprint from a processed past-exam document.
type AnalyzeExamJob struct {
	Blueprints services.BlueprintService
	UserID     string
	DocumentID string
}

func (j *AnalyzeExamJob) Name() string { return "analyze_exam" }

func (j *AnalyzeExamJob) Run(ctx context.Context) error {
	_, err := j.Blueprints.AnalyzeExam(ctx, j.UserID, j.DocumentID)
	return err
}

// GenerateCardsJob builds review cards for a subject's weakest topics.
type GenerateCardsJob struct {
	Review  services.ReviewService
	UserID  string
	Subject string
}

func (j *GenerateCardsJob) Name() string { return "generate_cards" }

func (j *GenerateCardsJob) Run(ctx context.Context) error {
	created, err := j.Review.GenerateForSubject(ctx, j.UserID, j.Subject)
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("generated %d cards for subject %s", created, j.Subject)
	return nil
}
