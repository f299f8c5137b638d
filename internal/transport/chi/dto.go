package chi

import (
	"time"

	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
	dommsg "github.com/kailas-cloud/resumechat/internal/domain/message"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
	domsession "github.com/kailas-cloud/resumechat/internal/domain/session"
	domusage "github.com/kailas-cloud/resumechat/internal/domain/usage"
)

// TurnDTO is one prior conversation message.
type TurnDTO struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// AnswerRequest is the body of POST /chat/answer.
type AnswerRequest struct {
	Content string    `json:"content"`
	History []TurnDTO `json:"history"`
}

// AnswerResponse carries the composed reply.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// FollowUpRequest is the body of POST /chat/follow-ups.
type FollowUpRequest struct {
	Answer  string    `json:"answer"`
	History []TurnDTO `json:"history"`
}

// QuestionsResponse lists suggested questions.
type QuestionsResponse struct {
	Questions []string `json:"questions"`
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResultDTO is one retrieval hit.
type SearchResultDTO struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// SearchResponse lists retrieval hits, best first.
type SearchResponse struct {
	Results []SearchResultDTO `json:"results"`
}

// MessageRequest is the body of POST /messages.
type MessageRequest struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// MessageDTO is a stored chat message.
type MessageDTO struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
	UserID    string `json:"user_id"`
}

// DocumentRequest is the body of POST /documents. Embedding is optional;
// when present it is stored as-is instead of being computed.
type DocumentRequest struct {
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
}

// IngestRequest is the body of POST /documents/ingest.
type IngestRequest struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// DocumentDTO is a stored chunk without its embedding.
type DocumentDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DocumentListResponse lists chunks in insertion order.
type DocumentListResponse struct {
	Documents []DocumentDTO `json:"documents"`
	Count     int           `json:"count"`
}

// EmailRequest carries an email address.
type EmailRequest struct {
	Email string `json:"email"`
}

// TokenRequest carries an access token.
type TokenRequest struct {
	Token string `json:"token"`
}

// AccessResponse reports an access request outcome.
type AccessResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}

// SessionRequest is the body of POST /sessions.
type SessionRequest struct {
	UserID string `json:"user_id"`
}

// SessionDTO is a visitor session.
type SessionDTO struct {
	SessionID      string    `json:"session_id"`
	UserID         string    `json:"user_id"`
	StartTime      time.Time `json:"start_time"`
	ExpirationTime time.Time `json:"expiration_time"`
	Active         bool      `json:"active"`
}

// SynthesizeRequest is the body of POST /speech/synthesize.
type SynthesizeRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id,omitempty"` // empty uses the configured voice
}

// SpeechResponse is the synthesis envelope. Audio is base64 in JSON.
type SpeechResponse struct {
	Success  bool   `json:"success"`
	Audio    []byte `json:"audio,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RecordingRequest is the body of POST /speech/recordings.
type RecordingRequest struct {
	MimeType string `json:"mime_type"`
}

// RecordingResponse identifies an open recording.
type RecordingResponse struct {
	ID string `json:"id"`
}

// TranscriptionResponse carries recognized text.
type TranscriptionResponse struct {
	Text string `json:"text"`
}

// BudgetDTO is a provider budget snapshot.
type BudgetDTO struct {
	TokensLimit     int64      `json:"tokens_limit"`
	TokensRemaining int64      `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// ProviderUsageDTO is one provider's usage in the period.
type ProviderUsageDTO struct {
	Provider         string     `json:"provider"`
	Tokens           int64      `json:"tokens"`
	CostMillidollars int64      `json:"cost_millidollars,omitempty"`
	PeriodStartAt    *time.Time `json:"period_start_at,omitempty"`
	PeriodEndAt      *time.Time `json:"period_end_at,omitempty"`
	Budget           BudgetDTO  `json:"budget"`
}

// UsageResponse is the body of GET /usage.
type UsageResponse struct {
	Period    string             `json:"period"`
	Providers []ProviderUsageDTO `json:"providers"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func turnsFromDTO(in []TurnDTO) ([]chat.Turn, bool) {
	out := make([]chat.Turn, 0, len(in))
	for _, t := range in {
		role := chat.Role(t.Role)
		if role != chat.RoleUser && role != chat.RoleAssistant {
			return nil, false
		}
		out = append(out, chat.Turn{Role: role, Content: t.Content, Timestamp: t.Timestamp})
	}
	return out, true
}

func resultsToDTO(rs []result.Result) []SearchResultDTO {
	out := make([]SearchResultDTO, len(rs))
	for i := range rs {
		out[i] = SearchResultDTO{ID: rs[i].ID(), Content: rs[i].Content(), Score: rs[i].Score()}
	}
	return out
}

func messageToDTO(m *dommsg.Message) MessageDTO {
	return MessageDTO{
		ID:        m.ID(),
		Role:      string(m.Role()),
		Content:   m.Content(),
		Timestamp: m.Timestamp(),
		UserID:    m.UserID(),
	}
}

func documentToDTO(c *domdoc.Chunk) DocumentDTO {
	return DocumentDTO{
		ID:        c.ID(),
		Name:      c.Name(),
		Content:   c.Content(),
		CreatedAt: time.UnixMilli(c.CreatedAt()).UTC(),
	}
}

func sessionToDTO(s *domsession.Session) SessionDTO {
	return SessionDTO{
		SessionID:      s.ID(),
		UserID:         s.UserID(),
		StartTime:      time.UnixMilli(s.StartTime()).UTC(),
		ExpirationTime: time.UnixMilli(s.ExpirationTime()).UTC(),
		Active:         s.Active(),
	}
}

func usageToDTO(r *domusage.Report) ProviderUsageDTO {
	b := r.Budget()
	out := ProviderUsageDTO{
		Provider:         r.Provider(),
		Tokens:           r.Tokens(),
		CostMillidollars: r.CostMillidollars(),
		Budget: BudgetDTO{
			TokensLimit:     b.TokensLimit,
			TokensRemaining: b.TokensRemaining,
			IsExhausted:     b.IsExhausted,
		},
	}
	if r.PeriodStart() > 0 {
		start := time.UnixMilli(r.PeriodStart()).UTC()
		end := time.UnixMilli(r.PeriodEnd()).UTC()
		out.PeriodStartAt, out.PeriodEndAt = &start, &end
	}
	if b.ResetsAt > 0 {
		resets := time.UnixMilli(b.ResetsAt).UTC()
		out.Budget.ResetsAt = &resets
	}
	return out
}
