package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/genai"
	"github.com/jpaulsen/lawflow/internal/ingest"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
	"github.com/jpaulsen/lawflow/internal/rewards"
	"github.com/jpaulsen/lawflow/internal/taxonomy"
)

const documentUploadPoints = 10

// UploadDocumentRequest registers one raw-text study document.
type UploadDocumentRequest struct {
	Filename string `json:"filename"`
	DocType  string `json:"doc_type"`
	Subject  string `json:"subject"`
	Content  string `json:"content"`
}

// DocumentService owns the ingestion pipeline: register raw text, then chunk
// and tag it in the background.
type DocumentService interface {
	Upload(ctx context.Context, userID string, req UploadDocumentRequest) (*models.Document, error)
	// Process runs the full ingestion for one document: chunk, tag, persist.
	// Designed to run on a worker; failures mark the document errored.
	Process(ctx context.Context, userID, documentID string) error
	Get(ctx context.Context, userID, id string) (*models.Document, error)
	Chunks(ctx context.Context, userID, documentID string) ([]models.KnowledgeChunk, error)
	List(ctx context.Context, userID, subject, docType, status string) ([]models.Document, error)
	Delete(ctx context.Context, userID, id string) error
}

type documentService struct {
	db            *db.DB
	ai            genai.Collaborator
	rewards       RewardsService
	maxChunkToken int
}

// NewDocumentService creates a DocumentService. maxChunkTokens bounds chunk
// size for tagging.
func NewDocumentService(d *db.DB, ai genai.Collaborator, r RewardsService, maxChunkTokens int) DocumentService {
	if maxChunkTokens <= 0 {
		maxChunkTokens = 800
	}
	return &documentService{db: d, ai: ai, rewards: r, maxChunkToken: maxChunkTokens}
}

func (s *documentService) Upload(ctx context.Context, userID string, req UploadDocumentRequest) (*models.Document, error) {
	log := logger.FromContext(ctx)

	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.NewValidationError("content", "must not be empty")
	}
	if taxonomy.Find(req.Subject) == nil {
		return nil, errors.NewNotFoundError("subject", req.Subject)
	}
	docType := req.DocType
	if docType == "" {
		docType = models.DocOutline
	}
	filename := req.Filename
	if filename == "" {
		filename = "untitled.txt"
	}

	doc := models.Document{
		UserID:    userID,
		Filename:  filename,
		DocType:   docType,
		Subject:   req.Subject,
		SizeBytes: len(req.Content),
	}
	id, err := s.db.InsertDocument(ctx, doc, req.Content)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	if _, err := s.rewards.Award(ctx, userID, rewards.ActivityDocumentUpload, id,
		documentUploadPoints, fmt.Sprintf("Uploaded %s", filename), nil, nil); err != nil {
		log.Warn("reward for document upload failed: %v", err)
	}

	log.Info("document uploaded: id=%s subject=%s size=%d", id, req.Subject, len(req.Content))
	return s.Get(ctx, userID, id)
}

func (s *documentService) Process(ctx context.Context, userID, documentID string) error {
	log := logger.FromContext(ctx).WithField("document_id", documentID)

	doc, err := s.db.Document(ctx, userID, documentID)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if doc == nil {
		return errors.NewNotFoundError("document", documentID)
	}

	if err := s.db.UpdateDocumentStatus(ctx, userID, documentID, models.StatusProcessing, ""); err != nil {
		return errors.NewInternalError(err)
	}

	if err := s.ingest(ctx, userID, doc); err != nil {
		log.Error("ingestion failed: %v", err)
		if stErr := s.db.UpdateDocumentStatus(ctx, userID, documentID, models.StatusError, err.Error()); stErr != nil {
			log.Error("failed to mark document errored: %v", stErr)
		}
		return err
	}

	return nil
}

func (s *documentService) ingest(ctx context.Context, userID string, doc *models.Document) error {
	log := logger.FromContext(ctx)

	content, err := s.db.DocumentContent(ctx, userID, doc.ID)
	if err != nil {
		return err
	}

	pieces := ingest.ChunkText(content, s.maxChunkToken)
	if len(pieces) == 0 {
		return fmt.Errorf("document has no usable text")
	}

	chunks := make([]models.KnowledgeChunk, 0, len(pieces))
	for i, piece := range pieces {
		chunk := models.KnowledgeChunk{
			UserID:     userID,
			DocumentID: doc.ID,
			Content:    piece,
			ChunkIndex: i,
			Subject:    doc.Subject,
			Topic:      "general",
			Difficulty: 3,
		}

		tag, err := s.ai.TagContent(ctx, doc.Subject, piece)
		if err != nil {
			// A chunk that cannot be tagged still gets stored with neutral
			// classification; losing the text is worse than losing the tag.
			log.Warn("tagging failed for chunk %d: %v", i, err)
		} else {
			if tag.Topic != "" {
				chunk.Topic = tag.Topic
			}
			chunk.Subtopic = tag.Subtopic
			chunk.Summary = tag.Summary
			chunk.ContentType = tag.ContentType
			chunk.CaseName = tag.CaseName
			chunk.KeyTerms = tag.KeyTerms
			if tag.Difficulty >= 1 && tag.Difficulty <= 5 {
				chunk.Difficulty = tag.Difficulty
			}
		}
		chunks = append(chunks, chunk)
	}

	if err := s.db.InsertKnowledgeChunks(ctx, chunks); err != nil {
		return err
	}
	if err := s.db.SetDocumentChunkCount(ctx, userID, doc.ID, len(chunks)); err != nil {
		return err
	}
	if err := s.db.UpdateDocumentStatus(ctx, userID, doc.ID, models.StatusCompleted, ""); err != nil {
		return err
	}

	log.Info("document processed: id=%s chunks=%d", doc.ID, len(chunks))
	return nil
}

func (s *documentService) Get(ctx context.Context, userID, id string) (*models.Document, error) {
	doc, err := s.db.Document(ctx, userID, id)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if doc == nil {
		return nil, errors.NewNotFoundError("document", id)
	}
	return doc, nil
}

func (s *documentService) Chunks(ctx context.Context, userID, documentID string) ([]models.KnowledgeChunk, error) {
	doc, err := s.db.Document(ctx, userID, documentID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	if doc == nil {
		return nil, errors.NewNotFoundError("document", documentID)
	}
	chunks, err := s.db.ChunksByDocument(ctx, userID, documentID)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return chunks, nil
}

func (s *documentService) List(ctx context.Context, userID, subject, docType, status string) ([]models.Document, error) {
	docs, err := s.db.ListDocuments(ctx, userID, subject, docType, status)
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return docs, nil
}

func (s *documentService) Delete(ctx context.Context, userID, id string) error {
	deleted, err := s.db.DeleteDocument(ctx, userID, id)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if !deleted {
		return errors.NewNotFoundError("document", id)
	}
	return nil
}
