package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// Services are the use cases behind the HTTP API.
type Services struct {
	Answer    Answerer
	FollowUps FollowUps
	Search    Searcher
	Documents Documents
	Messages  Messages
	Access    Access
	Sessions  Sessions
	Speech    Speech
	Usage     Usage
	Health    Health
}

// Server holds the HTTP handlers.
type Server struct {
	svc           Services
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(svc Services, logger *zap.Logger) *Server {
	return &Server{svc: svc, logger: logger, errorHandlers: defaultErrorHandlers()}
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router) {
	r.Route("/chat", func(r chi.Router) {
		r.Post("/answer", s.GenerateAnswer)
		r.Post("/follow-ups", s.GenerateFollowUps)
		r.Get("/suggested", s.SuggestedQuestions)
	})

	r.Post("/messages", s.SendMessage)
	r.Get("/messages", s.GetMessages)

	r.Post("/search", s.HybridSearch)

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.ListDocuments)
		r.Post("/", s.UploadDocument)
		r.Delete("/", s.ClearDocuments)
		r.Post("/ingest", s.IngestDocument)
		r.Get("/{id}", s.GetDocument)
		r.Delete("/{id}", s.DeleteDocument)
	})

	r.Route("/access", func(r chi.Router) {
		r.Post("/requests", s.RequestAccess)
		r.Post("/verify", s.VerifyAccess)
		r.Get("/check", s.CheckAccess)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/active", s.ActiveSession)
		r.Delete("/{id}", s.EndSession)
	})

	r.Route("/speech", func(r chi.Router) {
		r.Post("/synthesize", s.Synthesize)
		r.Post("/transcribe", s.Transcribe)
		r.Post("/recordings", s.StartRecording)
		r.Post("/recordings/{id}/chunks", s.AppendRecording)
		r.Post("/recordings/{id}/stop", s.StopRecording)
		r.Delete("/recordings/{id}", s.CancelRecording)
	})

	r.Get("/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeJSON reads a bounded JSON body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, CodeBadRequest,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// setUsageHeaders reports provider tokens consumed by the request.
func setUsageHeaders(w http.ResponseWriter, r *http.Request) {
	u := domain.UsageFromContext(r.Context())
	if n, used := u.EmbeddingTokens(); used {
		w.Header().Set("X-Embedding-Tokens", fmt.Sprint(n))
	}
	if n := u.ChatTokens(); n > 0 {
		w.Header().Set("X-Chat-Tokens", fmt.Sprint(n))
	}
}
