package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domsession "github.com/kailas-cloud/resumechat/internal/domain/session"
)

const (
	keyPrefix     = domain.KeyPrefix + "session:"
	userKeyPrefix = domain.KeyPrefix + "user_sessions:"

	// maxUserSessions bounds how many recent sessions are inspected per user.
	maxUserSessions = 20
)

// store is the consumer interface for sessions (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration, nx bool) error
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo stores sessions as hashes indexed by a per-user id list.
type Repo struct {
	store store
	// retain keeps ended/expired session hashes around for this long past expiry.
	retain time.Duration
}

// New creates a session repository.
func New(s store, retain time.Duration) *Repo {
	return &Repo{store: s, retain: retain}
}

// Create stores a new session and links it to its user.
func (r *Repo) Create(ctx context.Context, s *domsession.Session) error {
	key := keyPrefix + s.ID()
	if err := r.store.HSet(ctx, key, map[string]string{
		"user_id":         s.UserID(),
		"start_time":      strconv.FormatInt(s.StartTime(), 10),
		"expiration_time": strconv.FormatInt(s.ExpirationTime(), 10),
		"active":          strconv.FormatBool(s.Active()),
	}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}

	ttl := time.Until(time.UnixMilli(s.ExpirationTime())) + r.retain
	if err := r.store.Expire(ctx, key, ttl, false); err != nil {
		return fmt.Errorf("expire %s: %w", key, err)
	}

	userKey := userKeyPrefix + s.UserID()
	if err := r.store.LPush(ctx, userKey, s.ID()); err != nil {
		return fmt.Errorf("lpush %s: %w", userKey, err)
	}
	return nil
}

// Get returns a session by id.
func (r *Repo) Get(ctx context.Context, id string) (domsession.Session, error) {
	key := keyPrefix + id
	h, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domsession.Session{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(h) == 0 {
		return domsession.Session{}, domain.ErrSessionNotFound
	}
	return fromHash(id, h), nil
}

// ListByUser returns the user's recent sessions, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string) ([]domsession.Session, error) {
	userKey := userKeyPrefix + userID
	ids, err := r.store.LRange(ctx, userKey, 0, maxUserSessions-1)
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", userKey, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyPrefix + id
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}

	out := make([]domsession.Session, 0, len(hashes))
	for i, h := range hashes {
		if len(h) == 0 {
			continue // expired out of the store
		}
		out = append(out, fromHash(ids[i], h))
	}
	return out, nil
}

// Deactivate marks a session ended. Missing sessions are ignored.
func (r *Repo) Deactivate(ctx context.Context, id string) error {
	key := keyPrefix + id
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return nil
	}
	if err := r.store.HSet(ctx, key, map[string]string{"active": "false"}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

func fromHash(id string, h map[string]string) domsession.Session {
	start, _ := strconv.ParseInt(h["start_time"], 10, 64)
	exp, _ := strconv.ParseInt(h["expiration_time"], 10, 64)
	active, _ := strconv.ParseBool(h["active"])
	return domsession.Reconstruct(id, h["user_id"], start, exp, active)
}
