package message

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/resumechat/internal/domain"
	dommsg "github.com/kailas-cloud/resumechat/internal/domain/message"
)

const (
	keyPrefix = domain.KeyPrefix + "msg:"
	logKey    = domain.KeyPrefix + "messages"
)

// store is the consumer interface for the message log (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
}

// Repo keeps messages as hashes plus a newest-first id list.
type Repo struct {
	store store
}

// New creates a message repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Append stores the message and pushes its id onto the log.
func (r *Repo) Append(ctx context.Context, m *dommsg.Message) error {
	key := keyPrefix + m.ID()
	if err := r.store.HSet(ctx, key, map[string]string{
		"role":      string(m.Role()),
		"content":   m.Content(),
		"timestamp": strconv.FormatInt(m.Timestamp(), 10),
		"user_id":   m.UserID(),
	}); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.store.LPush(ctx, logKey, m.ID()); err != nil {
		return fmt.Errorf("lpush %s: %w", logKey, err)
	}
	return nil
}

// Recent returns up to limit messages, newest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]dommsg.Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	ids, err := r.store.LRange(ctx, logKey, 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", logKey, err)
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
		return nil, fmt.Errorf("load messages: %w", err)
	}

	out := make([]dommsg.Message, 0, len(hashes))
	for i, h := range hashes {
		if len(h) == 0 {
			continue
		}
		ts, _ := strconv.ParseInt(h["timestamp"], 10, 64)
		userID := h["user_id"]
		if userID == "" {
			userID = dommsg.DefaultUserID
		}
		out = append(out, dommsg.Reconstruct(ids[i], dommsg.Role(h["role"]), h["content"], ts, userID))
	}
	return out, nil
}
