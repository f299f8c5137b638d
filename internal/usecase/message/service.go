package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/kailas-cloud/resumechat/internal/domain"
	dommsg "github.com/kailas-cloud/resumechat/internal/domain/message"
)

// Page size defaults for Recent.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Repository is the message log contract.
type Repository interface {
	Append(ctx context.Context, m *dommsg.Message) error
	Recent(ctx context.Context, limit int) ([]dommsg.Message, error)
}

// Service appends to and reads the chat message log.
type Service struct {
	repo         Repository
	defaultLimit int
	maxLimit     int
}

// New creates a message service. Non-positive limits fall back to 50/100.
func New(repo Repository, defaultLimit, maxLimit int) *Service {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Service{repo: repo, defaultLimit: min(defaultLimit, maxLimit), maxLimit: maxLimit}
}

// Send validates and appends a message. A zero timestamp means now.
func (s *Service) Send(ctx context.Context, role, content string, timestamp int64, userID string) (dommsg.Message, error) {
	r, err := dommsg.ParseRole(role)
	if err != nil {
		return dommsg.Message{}, errors.Join(domain.ErrInvalidInput, err)
	}
	m, err := dommsg.New(uuid.NewString(), r, content, timestamp, userID)
	if err != nil {
		return dommsg.Message{}, errors.Join(domain.ErrInvalidInput, err)
	}
	if err := s.repo.Append(ctx, &m); err != nil {
		return dommsg.Message{}, fmt.Errorf("append message: %w", err)
	}
	return m, nil
}

// Recent returns the newest messages first. limit <= 0 selects the default,
// anything above the maximum is clamped.
func (s *Service) Recent(ctx context.Context, limit int) ([]dommsg.Message, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	limit = min(limit, s.maxLimit)

	msgs, err := s.repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent messages: %w", err)
	}
	return msgs, nil
}
