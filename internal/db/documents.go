package db

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/models"
)

// InsertDocument registers an uploaded document in pending state. The raw
// text is stored for the ingestion job but never returned on list/get paths.
func (db *DB) InsertDocument(ctx context.Context, d models.Document, content string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting document: filename=%s subject=%s", d.Filename, d.Subject)

	id := uuid.NewString()
	_, err := db.ExecContext(ctx, `
INSERT INTO documents (id, user_id, filename, doc_type, subject, content, processing_status, size_bytes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, id, d.UserID, d.Filename, d.DocType, d.Subject, content, models.StatusPending, d.SizeBytes)
	if err != nil {
		log.Error("failed to insert document: %v", err)
		return "", err
	}
	return id, nil
}

const documentColumns = `id, user_id, filename, doc_type, subject, processing_status, error_message, total_chunks, size_bytes, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.UserID, &d.Filename, &d.DocType, &d.Subject,
		&d.ProcessingStatus, &d.ErrorMessage, &d.TotalChunks, &d.SizeBytes,
		&d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (db *DB) Document(ctx context.Context, userID, id string) (*models.Document, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = ? AND user_id = ?
`, id, userID)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListDocuments returns a learner's documents newest first with optional
// subject, type, and status filters.
func (db *DB) ListDocuments(ctx context.Context, userID, subject, docType, status string) ([]models.Document, error) {
	q := sq.Select(documentColumns).
		From("documents").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")
	if subject != "" {
		q = q.Where(sq.Eq{"subject": subject})
	}
	if docType != "" {
		q = q.Where(sq.Eq{"doc_type": docType})
	}
	if status != "" {
		q = q.Where(sq.Eq{"processing_status": status})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// DocumentContent returns the stored raw text for ingestion.
func (db *DB) DocumentContent(ctx context.Context, userID, id string) (string, error) {
	var content string
	err := db.QueryRowContext(ctx, `
SELECT content FROM documents WHERE id = ? AND user_id = ?
`, id, userID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return content, err
}

// UpdateDocumentStatus advances the processing state machine. errMsg is only
// meaningful for the error status.
func (db *DB) UpdateDocumentStatus(ctx context.Context, userID, id, status, errMsg string) error {
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("document status: id=%s status=%s", id, status)

	_, err := db.ExecContext(ctx, `
UPDATE documents
SET processing_status = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND user_id = ?
`, status, errMsg, id, userID)
	if err != nil {
		log.Error("failed to update document status: %v", err)
	}
	return err
}

// SetDocumentChunkCount records how many chunks ingestion produced.
func (db *DB) SetDocumentChunkCount(ctx context.Context, userID, id string, total int) error {
	_, err := db.ExecContext(ctx, `
UPDATE documents
SET total_chunks = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ? AND user_id = ?
`, total, id, userID)
	return err
}

// DeleteDocument removes a document; chunks and blueprints cascade.
func (db *DB) DeleteDocument(ctx context.Context, userID, id string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM documents WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// InsertKnowledgeChunks stores a document's tagged chunks in one transaction.
func (db *DB) InsertKnowledgeChunks(ctx context.Context, chunks []models.KnowledgeChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	log := logger.FromContext(ctx).WithPrefix("db")
	log.Debug("inserting %d knowledge chunks", len(chunks))

	return db.Tx(ctx, func(tx *sql.Tx) error {
		for i := range chunks {
			if chunks[i].ID == "" {
				chunks[i].ID = uuid.NewString()
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO knowledge_chunks (id, user_id, document_id, content, summary, chunk_index,
    subject, topic, subtopic, difficulty, content_type, case_name, key_terms)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, chunks[i].ID, chunks[i].UserID, chunks[i].DocumentID, chunks[i].Content,
				chunks[i].Summary, chunks[i].ChunkIndex, chunks[i].Subject, chunks[i].Topic,
				chunks[i].Subtopic, chunks[i].Difficulty, chunks[i].ContentType,
				chunks[i].CaseName, marshalJSON(chunks[i].KeyTerms, "[]")); err != nil {
				return err
			}
		}
		return nil
	})
}

const chunkColumns = `id, user_id, document_id, content, summary, chunk_index, subject, topic, subtopic, difficulty, content_type, case_name, key_terms, created_at`

func scanChunk(row interface{ Scan(...any) error }) (models.KnowledgeChunk, error) {
	var c models.KnowledgeChunk
	var keyTerms string
	err := row.Scan(&c.ID, &c.UserID, &c.DocumentID, &c.Content, &c.Summary,
		&c.ChunkIndex, &c.Subject, &c.Topic, &c.Subtopic, &c.Difficulty,
		&c.ContentType, &c.CaseName, &keyTerms, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	unmarshalJSON(keyTerms, &c.KeyTerms)
	return c, nil
}

func (db *DB) ChunksByDocument(ctx context.Context, userID, documentID string) ([]models.KnowledgeChunk, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+chunkColumns+`
FROM knowledge_chunks
WHERE document_id = ? AND user_id = ?
ORDER BY chunk_index
`, documentID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.KnowledgeChunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (db *DB) KnowledgeChunk(ctx context.Context, userID, id string) (*models.KnowledgeChunk, error) {
	row := db.QueryRowContext(ctx, `
SELECT `+chunkColumns+`
FROM knowledge_chunks
WHERE id = ? AND user_id = ?
`, id, userID)
	c, err := scanChunk(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ChunksByTopic returns completed-document chunks for a subject topic, used as
// grounding context for question and card generation.
func (db *DB) ChunksByTopic(ctx context.Context, userID, subject, topic string, limit int) ([]models.KnowledgeChunk, error) {
	rows, err := db.QueryContext(ctx, `
SELECT `+chunkColumns+`
FROM knowledge_chunks
WHERE user_id = ? AND subject = ? AND topic = ?
ORDER BY created_at DESC
LIMIT ?
`, userID, subject, topic, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.KnowledgeChunk
	for rows.Next() {
		c, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ChunkCountsBySubject maps topic key to available chunk count for a subject.
func (db *DB) ChunkCountsBySubject(ctx context.Context, userID, subject string) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `
SELECT topic, COUNT(*)
FROM knowledge_chunks
WHERE user_id = ? AND subject = ?
GROUP BY topic
`, userID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var topic string
		var n int
		if err := rows.Scan(&topic, &n); err != nil {
			return nil, err
		}
		out[topic] = n
	}
	return out, rows.Err()
}
