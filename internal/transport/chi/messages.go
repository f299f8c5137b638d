package chi

import (
	"net/http"
	"strconv"
)

// SendMessage handles POST /messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	m, err := s.svc.Messages.Send(r.Context(), req.Role, req.Content, req.Timestamp, req.UserID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageToDTO(&m))
}

// GetMessages handles GET /messages?limit=.
func (s *Server) GetMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, CodeBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	msgs, err := s.svc.Messages.Recent(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]MessageDTO, len(msgs))
	for i := range msgs {
		out[i] = messageToDTO(&msgs[i])
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}
