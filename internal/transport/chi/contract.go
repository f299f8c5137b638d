package chi

import (
	"context"

	domaccess "github.com/kailas-cloud/resumechat/internal/domain/access"
	"github.com/kailas-cloud/resumechat/internal/domain/chat"
	domdoc "github.com/kailas-cloud/resumechat/internal/domain/document"
	dommsg "github.com/kailas-cloud/resumechat/internal/domain/message"
	"github.com/kailas-cloud/resumechat/internal/domain/search/result"
	domsession "github.com/kailas-cloud/resumechat/internal/domain/session"
	"github.com/kailas-cloud/resumechat/internal/domain/speech"
	domusage "github.com/kailas-cloud/resumechat/internal/domain/usage"
	"github.com/kailas-cloud/resumechat/internal/usecase/followup"
	healthuc "github.com/kailas-cloud/resumechat/internal/usecase/health"
)

// Answerer composes grounded replies.
type Answerer interface {
	Answer(ctx context.Context, content string, history []chat.Turn) string
}

// FollowUps suggests next questions.
type FollowUps interface {
	Generate(ctx context.Context, answer string, history []chat.Turn) []string
	Suggested() []followup.Suggestion
}

// Searcher runs hybrid retrieval.
type Searcher interface {
	Search(ctx context.Context, query string) ([]result.Result, error)
}

// Documents manages resume chunks.
type Documents interface {
	Upload(ctx context.Context, name, content string) (domdoc.Chunk, error)
	Store(ctx context.Context, name, content string, vector []float32) (domdoc.Chunk, error)
	Ingest(ctx context.Context, name, text string) ([]domdoc.Chunk, error)
	Get(ctx context.Context, id string) (domdoc.Chunk, error)
	List(ctx context.Context) ([]domdoc.Chunk, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) (int, error)
}

// Messages is the chat message log.
type Messages interface {
	Send(ctx context.Context, role, content string, timestamp int64, userID string) (dommsg.Message, error)
	Recent(ctx context.Context, limit int) ([]dommsg.Message, error)
}

// Access runs the access-request flow.
type Access interface {
	Request(ctx context.Context, email string) (domaccess.Request, error)
	Verify(ctx context.Context, token string) (domaccess.Request, error)
	Check(ctx context.Context, email string) (bool, error)
}

// Sessions manages visitor sessions.
type Sessions interface {
	Create(ctx context.Context, userID string) (domsession.Session, error)
	Active(ctx context.Context, userID string) (domsession.Session, error)
	End(ctx context.Context, id string) error
}

// Speech converts between text and audio.
type Speech interface {
	Synthesize(ctx context.Context, text, voiceID string) speech.Synthesis
	Transcribe(ctx context.Context, data []byte, contentType string) (speech.Transcription, error)
	StartRecording(contentType string) string
	AppendRecording(id string, chunk []byte) error
	StopRecording(ctx context.Context, id string) (speech.Transcription, error)
	CancelRecording(id string)
}

// Usage reports token budgets.
type Usage interface {
	GetReport(ctx context.Context, period domusage.Period) []domusage.Report
}

// Health aggregates component checks.
type Health interface {
	Check(ctx context.Context) healthuc.Report
}
