package models

import "time"

// Document processing statuses. A crashed ingestion job marks the owning
// document error + message; chunks are never visible under a partial
// "completed".
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Document types
const (
	DocCasebook   = "casebook"
	DocSlides     = "slides"
	DocOutline    = "outline"
	DocExam       = "exam"
	DocSupplement = "supplement"
)

type Document struct {
	ID               string    `json:"id"`
	UserID           string    `json:"-"`
	Filename         string    `json:"filename"`
	DocType          string    `json:"doc_type"`
	Subject          string    `json:"subject"`
	ProcessingStatus string    `json:"processing_status"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	TotalChunks      int       `json:"total_chunks"`
	SizeBytes        int       `json:"size_bytes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// KnowledgeChunk is a tagged slice of an ingested document.
type KnowledgeChunk struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	DocumentID  string    `json:"document_id"`
	Content     string    `json:"content"`
	Summary     string    `json:"summary"`
	ChunkIndex  int       `json:"chunk_index"`
	Subject     string    `json:"subject"`
	Topic       string    `json:"topic"`
	Subtopic    string    `json:"subtopic"`
	Difficulty  int       `json:"difficulty"`
	ContentType string    `json:"content_type"`
	CaseName    string    `json:"case_name"`
	KeyTerms    []string  `json:"key_terms"`
	CreatedAt   time.Time `json:"created_at"`
}
