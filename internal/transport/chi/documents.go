package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
)

// ListDocuments handles GET /documents.
func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	chunks, err := s.svc.Documents.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]DocumentDTO, len(chunks))
	for i := range chunks {
		out[i] = documentToDTO(&chunks[i])
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: out, Count: len(out)})
}

// UploadDocument handles POST /documents.
func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		c   domdoc.Chunk
		err error
	)
	if len(req.Embedding) > 0 {
		c, err = s.svc.Documents.Store(r.Context(), req.Name, req.Content, req.Embedding)
	} else {
		c, err = s.svc.Documents.Upload(r.Context(), req.Name, req.Content)
	}
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	setUsageHeaders(w, r)
	writeJSON(w, http.StatusCreated, documentToDTO(&c))
}

// IngestDocument handles POST /documents/ingest.
func (s *Server) IngestDocument(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	chunks, err := s.svc.Documents.Ingest(r.Context(), req.Name, req.Text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]DocumentDTO, len(chunks))
	for i := range chunks {
		out[i] = documentToDTO(&chunks[i])
	}
	setUsageHeaders(w, r)
	writeJSON(w, http.StatusCreated, DocumentListResponse{Documents: out, Count: len(out)})
}

// GetDocument handles GET /documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToDTO(&c))
}

// DeleteDocument handles DELETE /documents/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearDocuments handles DELETE /documents.
func (s *Server) ClearDocuments(w http.ResponseWriter, r *http.Request) {
	n, err := s.svc.Documents.Clear(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
