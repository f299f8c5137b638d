package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kailas-cloud/resumechat/internal/db"
)

type mockStore struct {
	getFn    func(ctx context.Context, key string) ([]byte, error)
	incrKeys []string
	expires  map[string]time.Duration
	nx       []bool
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) IncrBy(_ context.Context, key string, _ int64) error {
	m.incrKeys = append(m.incrKeys, key)
	return nil
}

func (m *mockStore) Expire(_ context.Context, key string, ttl time.Duration, nx bool) error {
	if m.expires == nil {
		m.expires = map[string]time.Duration{}
	}
	m.expires[key] = ttl
	m.nx = append(m.nx, nx)
	return nil
}

func TestIncrBy_TTLByKeyShape(t *testing.T) {
	ms := &mockStore{}
	s := New(ms, 48*time.Hour, 62*24*time.Hour)
	ctx := context.Background()

	daily := "resumechat:budget:openai:daily:2026-10-19"
	monthly := "resumechat:budget:openai:monthly:2026-10"
	if err := s.IncrBy(ctx, daily, 100); err != nil {
		t.Fatalf("daily: %v", err)
	}
	if err := s.IncrBy(ctx, monthly, 100); err != nil {
		t.Fatalf("monthly: %v", err)
	}

	if ms.expires[daily] != 48*time.Hour {
		t.Errorf("daily ttl = %v", ms.expires[daily])
	}
	if ms.expires[monthly] != 62*24*time.Hour {
		t.Errorf("monthly ttl = %v", ms.expires[monthly])
	}
	for i, nx := range ms.nx {
		if !nx {
			t.Errorf("expire #%d must use NX", i)
		}
	}
}

func TestGet(t *testing.T) {
	ms := &mockStore{}
	s := New(ms, time.Hour, time.Hour)

	if v, err := s.Get(context.Background(), "k"); err != nil || v != 0 {
		t.Fatalf("missing key: %d, %v", v, err)
	}

	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("1234"), nil }
	if v, err := s.Get(context.Background(), "k"); err != nil || v != 1234 {
		t.Fatalf("Get = %d, %v", v, err)
	}

	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("nan"), nil }
	if _, err := s.Get(context.Background(), "k"); err == nil {
		t.Fatal("expected parse error")
	}

	boom := errors.New("timeout")
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, boom }
	if _, err := s.Get(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
