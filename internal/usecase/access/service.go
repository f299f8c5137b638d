package access

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domaccess "github.com/kailas-cloud/resumechat/internal/domain/access"
	"github.com/kailas-cloud/resumechat/internal/logger"
)

// Repository is the access request storage contract.
type Repository interface {
	Create(ctx context.Context, req *domaccess.Request) error
	Save(ctx context.Context, req *domaccess.Request) error
	GetByToken(ctx context.Context, token string) (domaccess.Request, error)
	ListByEmail(ctx context.Context, email string) ([]domaccess.Request, error)
}

// Service runs the email access-request flow.
type Service struct {
	repo   Repository
	bypass bool
	now    func() time.Time
	logger *zap.Logger
}

// New creates an access service. With bypass set, every request is verified
// on creation and every email passes Check.
func New(repo Repository, bypass bool, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{repo: repo, bypass: bypass, now: time.Now, logger: l}
}

// Request records an access request for email and returns it.
func (s *Service) Request(ctx context.Context, email string) (domaccess.Request, error) {
	normalized, err := domaccess.NormalizeEmail(email)
	if err != nil {
		return domaccess.Request{}, errors.Join(domain.ErrInvalidInput, err)
	}

	now := s.now().UnixMilli()
	req := domaccess.New(normalized, uuid.NewString(), now)
	if s.bypass {
		req = req.Verify(now)
	}
	if err := s.repo.Create(ctx, &req); err != nil {
		return domaccess.Request{}, fmt.Errorf("create access request: %w", err)
	}

	logger.FromContextOr(ctx, s.logger).Info("Access requested",
		zap.String("email", normalized),
		zap.String("status", string(req.Status())),
	)
	return req, nil
}

// Verify marks the request for token as verified. Verifying twice is a no-op.
func (s *Service) Verify(ctx context.Context, token string) (domaccess.Request, error) {
	req, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return domaccess.Request{}, fmt.Errorf("get access request: %w", err)
	}
	if req.IsVerified() {
		return req, nil
	}

	verified := req.Verify(s.now().UnixMilli())
	if err := s.repo.Save(ctx, &verified); err != nil {
		return domaccess.Request{}, fmt.Errorf("save access request: %w", err)
	}
	return verified, nil
}

// Check reports whether email holds a verified request.
func (s *Service) Check(ctx context.Context, email string) (bool, error) {
	if s.bypass {
		return true, nil
	}
	normalized, err := domaccess.NormalizeEmail(email)
	if err != nil {
		return false, errors.Join(domain.ErrInvalidInput, err)
	}

	reqs, err := s.repo.ListByEmail(ctx, normalized)
	if err != nil {
		return false, fmt.Errorf("list access requests: %w", err)
	}
	for i := range reqs {
		if reqs[i].IsVerified() {
			return true, nil
		}
	}
	return false, nil
}
