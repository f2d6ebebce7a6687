package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpaulsen/lawflow/internal/db"
	apperrors "github.com/jpaulsen/lawflow/internal/errors"
	"github.com/jpaulsen/lawflow/internal/genai"
	"github.com/jpaulsen/lawflow/internal/models"
)

func newDocumentService(d *db.DB, mock *genai.Mock) DocumentService {
	return &documentService{
		db:            d,
		ai:            mock,
		rewards:       newFixedRewards(d),
		maxChunkToken: 200,
	}
}

const outlineText = `Offer and acceptance form the core of contract formation.

An offer manifests willingness to enter a bargain so that another is justified
in understanding assent is invited and will conclude it.

Acceptance is a manifestation of assent to the terms in a manner invited or
required by the offer.`

func TestUploadAndProcessDocument(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})
	ctx := context.Background()

	doc, err := svc.Upload(ctx, testUser, UploadDocumentRequest{
		Filename: "formation.txt",
		DocType:  models.DocOutline,
		Subject:  "contracts",
		Content:  outlineText,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, doc.ProcessingStatus)
	assert.Equal(t, len(outlineText), doc.SizeBytes)

	require.NoError(t, svc.Process(ctx, testUser, doc.ID))

	doc, err = svc.Get(ctx, testUser, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, doc.ProcessingStatus)
	assert.Positive(t, doc.TotalChunks)

	chunks, err := svc.Chunks(ctx, testUser, doc.ID)
	require.NoError(t, err)
	require.Len(t, chunks, doc.TotalChunks)
	for _, c := range chunks {
		assert.Equal(t, "contracts", c.Subject)
		assert.Equal(t, "general", c.Topic)
		assert.Equal(t, 3, c.Difficulty)
		assert.NotEmpty(t, c.Content)
	}
}

func TestUploadRejectsEmptyContent(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})

	_, err := svc.Upload(context.Background(), testUser, UploadDocumentRequest{
		Subject: "contracts",
		Content: "   \n\t",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}

func TestUploadRejectsUnknownSubject(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})

	_, err := svc.Upload(context.Background(), testUser, UploadDocumentRequest{
		Subject: "alchemy",
		Content: "text",
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestUploadDefaults(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})

	doc, err := svc.Upload(context.Background(), testUser, UploadDocumentRequest{
		Subject: "torts",
		Content: "Battery is an intentional harmful or offensive contact.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DocOutline, doc.DocType)
	assert.Equal(t, "untitled.txt", doc.Filename)
}

func TestProcessAppliesCollaboratorTags(t *testing.T) {
	d := newTestEnv(t)
	mock := &genai.Mock{
		TagContentFunc: func(ctx context.Context, subject, content string) (*genai.TagResult, error) {
			return &genai.TagResult{
				Subject:     subject,
				Topic:       "offer",
				Difficulty:  5,
				ContentType: "rule",
				Summary:     "formation rules",
				KeyTerms:    []string{"offer", "assent"},
			}, nil
		},
	}
	svc := newDocumentService(d, mock)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, testUser, UploadDocumentRequest{
		Subject: "contracts",
		Content: outlineText,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Process(ctx, testUser, doc.ID))

	chunks, err := svc.Chunks(ctx, testUser, doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, "offer", c.Topic)
		assert.Equal(t, 5, c.Difficulty)
		assert.Equal(t, "rule", c.ContentType)
		assert.Equal(t, []string{"offer", "assent"}, c.KeyTerms)
	}
}

func TestProcessKeepsChunksWhenTaggingFails(t *testing.T) {
	d := newTestEnv(t)
	mock := &genai.Mock{
		TagContentFunc: func(ctx context.Context, subject, content string) (*genai.TagResult, error) {
			return nil, errors.New("model unavailable")
		},
	}
	svc := newDocumentService(d, mock)
	ctx := context.Background()

	doc, err := svc.Upload(ctx, testUser, UploadDocumentRequest{
		Subject: "contracts",
		Content: outlineText,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Process(ctx, testUser, doc.ID))

	doc, err = svc.Get(ctx, testUser, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, doc.ProcessingStatus)

	chunks, err := svc.Chunks(ctx, testUser, doc.ID)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, "general", c.Topic)
		assert.Equal(t, 3, c.Difficulty)
	}
}

func TestProcessMissingDocument(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})

	err := svc.Process(context.Background(), testUser, "no-such-document")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}

func TestListDocumentsFilters(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})
	ctx := context.Background()

	_, err := svc.Upload(ctx, testUser, UploadDocumentRequest{
		Filename: "contracts.txt", Subject: "contracts", Content: "Offer rules.",
	})
	require.NoError(t, err)
	_, err = svc.Upload(ctx, testUser, UploadDocumentRequest{
		Filename: "torts.txt", DocType: models.DocExam, Subject: "torts", Content: "Battery rules.",
	})
	require.NoError(t, err)

	docs, err := svc.List(ctx, testUser, "contracts", "", "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "contracts.txt", docs[0].Filename)

	docs, err = svc.List(ctx, testUser, "", models.DocExam, "")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "torts.txt", docs[0].Filename)

	docs, err = svc.List(ctx, testUser, "", "", models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDeleteDocumentCascadesChunks(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})
	ctx := context.Background()

	doc, err := svc.Upload(ctx, testUser, UploadDocumentRequest{
		Subject: "contracts",
		Content: outlineText,
	})
	require.NoError(t, err)
	require.NoError(t, svc.Process(ctx, testUser, doc.ID))

	require.NoError(t, svc.Delete(ctx, testUser, doc.ID))

	_, err = svc.Get(ctx, testUser, doc.ID)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)

	chunks, err := d.ChunksByDocument(ctx, testUser, doc.ID)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestChunkingSplitsLongDocuments(t *testing.T) {
	d := newTestEnv(t)
	svc := newDocumentService(d, &genai.Mock{})
	ctx := context.Background()

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("The rule against perpetuities voids contingent future interests that may vest too remotely.\n\n")
	}
	doc, err := svc.Upload(ctx, testUser, UploadDocumentRequest{
		Subject: "property",
		Content: b.String(),
	})
	require.NoError(t, err)
	require.NoError(t, svc.Process(ctx, testUser, doc.ID))

	doc, err = svc.Get(ctx, testUser, doc.ID)
	require.NoError(t, err)
	assert.Greater(t, doc.TotalChunks, 1)
}
