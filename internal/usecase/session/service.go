package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domsession "github.com/kailas-cloud/resumechat/internal/domain/session"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

// Repository is the session storage contract.
type Repository interface {
	Create(ctx context.Context, s *domsession.Session) error
	ListByUser(ctx context.Context, userID string) ([]domsession.Session, error)
	Deactivate(ctx context.Context, id string) error
}

// Service manages visitor sessions.
type Service struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time
}

// New creates a session service.
func New(repo Repository, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{repo: repo, ttl: ttl, now: time.Now}
}

// Create starts a session for userID and returns it.
func (s *Service) Create(ctx context.Context, userID string) (domsession.Session, error) {
	if strings.TrimSpace(userID) == "" {
		return domsession.Session{}, fmt.Errorf("user id is required: %w", domain.ErrInvalidInput)
	}
	sess := domsession.New(newID(), userID, s.now(), s.ttl)
	if err := s.repo.Create(ctx, &sess); err != nil {
		return domsession.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

// Active returns the user's newest live session or ErrSessionNotFound.
func (s *Service) Active(ctx context.Context, userID string) (domsession.Session, error) {
	sessions, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return domsession.Session{}, fmt.Errorf("list sessions: %w", err)
	}
	now := s.now()
	for i := range sessions {
		if sessions[i].IsLive(now) {
			return sessions[i], nil
		}
	}
	return domsession.Session{}, domain.ErrSessionNotFound
}

// End deactivates a session. Unknown ids are ignored.
func (s *Service) End(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func newID() string {
	return "session_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
