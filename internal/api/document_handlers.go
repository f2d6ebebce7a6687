package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jpaulsen/lawflow/internal/services"
	"github.com/jpaulsen/lawflow/internal/worker"
)

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())

	var req services.UploadDocumentRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	doc, err := s.Documents.Upload(r.Context(), userID, req)
	if err != nil {
		handleError(w, r, err)
		return
	}

	s.IngestPool.Submit(&worker.ProcessDocumentJob{
		Documents:  s.Documents,
		UserID:     userID,
		DocumentID: doc.ID,
	})
	respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	q := r.URL.Query()

	docs, err := s.Documents.List(r.Context(), userID, q.Get("subject"), q.Get("doc_type"), q.Get("status"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	doc, err := s.Documents.Get(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDocumentChunks(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	chunks, err := s.Documents.Chunks(r.Context(), userID, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"chunks": chunks, "count": len(chunks)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID := learnerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.Documents.Delete(r.Context(), userID, id); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
