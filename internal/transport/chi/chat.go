package chi

import (
	"net/http"
	"strings"

	"github.com/kailas-cloud/resumechat/internal/usecase/followup"
)

// GenerateAnswer handles POST /chat/answer.
func (s *Server) GenerateAnswer(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "content is required")
		return
	}
	history, ok := turnsFromDTO(req.History)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, `history role must be "user" or "assistant"`)
		return
	}

	answer := s.svc.Answer.Answer(r.Context(), req.Content, history)
	setUsageHeaders(w, r)
	writeJSON(w, http.StatusOK, AnswerResponse{Answer: answer})
}

// GenerateFollowUps handles POST /chat/follow-ups.
func (s *Server) GenerateFollowUps(w http.ResponseWriter, r *http.Request) {
	var req FollowUpRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	history, ok := turnsFromDTO(req.History)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, `history role must be "user" or "assistant"`)
		return
	}

	questions := s.svc.FollowUps.Generate(r.Context(), req.Answer, history)
	if questions == nil {
		questions = []string{}
	}
	setUsageHeaders(w, r)
	writeJSON(w, http.StatusOK, QuestionsResponse{Questions: questions})
}

// SuggestedQuestions handles GET /chat/suggested.
func (s *Server) SuggestedQuestions(w http.ResponseWriter, _ *http.Request) {
	suggested := s.svc.FollowUps.Suggested()
	if suggested == nil {
		suggested = []followup.Suggestion{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"suggested": suggested})
}

// HybridSearch handles POST /search.
func (s *Server) HybridSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	results, err := s.svc.Search.Search(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	setUsageHeaders(w, r)
	writeJSON(w, http.StatusOK, SearchResponse{Results: resultsToDTO(results)})
}
