package access

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domaccess "github.com/kailas-cloud/resumechat/internal/domain/access"
)

const (
	tokenPrefix = domain.KeyPrefix + "access:"
	emailPrefix = domain.KeyPrefix + "access_email:"
)

// store is the consumer interface for access requests (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo stores access requests by token, with a per-email token list.
type Repo struct {
	store store
}

// New creates an access request repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create stores a new request and indexes it under its email.
func (r *Repo) Create(ctx context.Context, req *domaccess.Request) error {
	if err := r.Save(ctx, req); err != nil {
		return err
	}
	key := emailPrefix + req.Email()
	if err := r.store.LPush(ctx, key, req.Token()); err != nil {
		return fmt.Errorf("lpush %s: %w", key, err)
	}
	return nil
}

// Save writes the request hash (create or status update).
func (r *Repo) Save(ctx context.Context, req *domaccess.Request) error {
	key := tokenPrefix + req.Token()
	if err := r.store.HSet(ctx, key, map[string]string{
		"email":        req.Email(),
		"status":       string(req.Status()),
		"requested_at": strconv.FormatInt(req.RequestedAt(), 10),
		"verified_at":  strconv.FormatInt(req.VerifiedAt(), 10),
	}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// GetByToken returns the request for a token or ErrInvalidAccessToken.
func (r *Repo) GetByToken(ctx context.Context, token string) (domaccess.Request, error) {
	key := tokenPrefix + token
	h, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domaccess.Request{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(h) == 0 {
		return domaccess.Request{}, domain.ErrInvalidAccessToken
	}
	return fromHash(token, h), nil
}

// ListByEmail returns every request made for an email, newest first.
func (r *Repo) ListByEmail(ctx context.Context, email string) ([]domaccess.Request, error) {
	key := emailPrefix + email
	tokens, err := r.store.LRange(ctx, key, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = tokenPrefix + t
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load access requests: %w", err)
	}

	out := make([]domaccess.Request, 0, len(hashes))
	for i, h := range hashes {
		if len(h) > 0 {
			out = append(out, fromHash(tokens[i], h))
		}
	}
	return out, nil
}

func fromHash(token string, h map[string]string) domaccess.Request {
	requested, _ := strconv.ParseInt(h["requested_at"], 10, 64)
	verified, _ := strconv.ParseInt(h["verified_at"], 10, 64)
	return domaccess.Reconstruct(h["email"], token, domaccess.Status(h["status"]), requested, verified)
}
