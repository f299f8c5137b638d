package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RequestAccess handles POST /access/requests. The token is delivered out
// of band and never echoed back.
func (s *Server) RequestAccess(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ar, err := s.svc.Access.Request(r.Context(), req.Email)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, AccessResponse{Success: true, Status: string(ar.Status())})
}

// VerifyAccess handles POST /access/verify.
func (s *Server) VerifyAccess(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ar, err := s.svc.Access.Verify(r.Context(), req.Token)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AccessResponse{Success: true, Status: string(ar.Status())})
}

// CheckAccess handles GET /access/check?email=.
func (s *Server) CheckAccess(w http.ResponseWriter, r *http.Request) {
	ok, err := s.svc.Access.Check(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"has_access": ok})
}

// CreateSession handles POST /sessions.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	sess, err := s.svc.Sessions.Create(r.Context(), req.UserID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionToDTO(&sess))
}

// ActiveSession handles GET /sessions/active?user_id=.
func (s *Server) ActiveSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Sessions.Active(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToDTO(&sess))
}

// EndSession handles DELETE /sessions/{id}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Sessions.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
