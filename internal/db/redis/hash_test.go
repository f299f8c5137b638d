package redis

import (
	"context"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/resumechat/internal/db"
)

func TestHSet(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().Do(gomock.Any(), cmdIs("HSET", "resumechat:doc:1")).Return(mock.Result(mock.RedisInt64(2)))

	err := s.HSet(context.Background(), "resumechat:doc:1", map[string]string{"name": "cv", "content": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHSet_ErrorIsWrapped(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().Do(gomock.Any(), cmdIs("HSET")).Return(mock.ErrorResult(context.DeadlineExceeded))

	err := s.HSet(context.Background(), "k", map[string]string{"f": "v"})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %T (%v)", err, err)
	}
}

func TestHSetMulti(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisInt64(1)),
			mock.ErrorResult(context.DeadlineExceeded),
		})

	err := s.HSetMulti(context.Background(), []db.HashSetItem{
		{Key: "k1", Fields: map[string]string{"a": "1"}},
		{Key: "k2", Fields: map[string]string{"b": "2"}},
	})
	if !isDBError(err) {
		t.Fatalf("expected db.Error for failing item, got %v", err)
	}

	if err := NewStoreForTest(nil).HSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("empty batch must be a no-op: %v", err)
	}
}

func TestHGetAll(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		Do(gomock.Any(), mock.Match("HGETALL", "k")).
		Return(mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{
			"name":    mock.RedisString("cv.txt"),
			"content": mock.RedisString("Go engineer"),
		})))

	m, err := s.HGetAll(context.Background(), "k")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["name"] != "cv.txt" || m["content"] != "Go engineer" {
		t.Errorf("unexpected map: %v", m)
	}
}

func TestHGetAllMulti(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"f": mock.RedisString("a")})),
			mock.Result(mock.RedisMap(map[string]rueidis.RedisMessage{"f": mock.RedisString("b")})),
		})

	out, err := s.HGetAllMulti(context.Background(), []string{"k1", "k2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 || out[0]["f"] != "a" || out[1]["f"] != "b" {
		t.Errorf("unexpected results: %v", out)
	}

	empty, err := NewStoreForTest(nil).HGetAllMulti(context.Background(), nil)
	if err != nil || empty != nil {
		t.Errorf("expected nil, nil for no keys; got %v, %v", empty, err)
	}
}

func TestDelMany(t *testing.T) {
	s, c := newMockStore(t)
	c.EXPECT().Do(gomock.Any(), mock.Match("DEL", "a", "b", "c")).Return(mock.Result(mock.RedisInt64(2)))

	n, err := s.DelMany(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
}

func TestExists(t *testing.T) {
	s, c := newMockStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "k")).Return(mock.Result(mock.RedisInt64(1))),
		c.EXPECT().Do(gomock.Any(), mock.Match("EXISTS", "k")).Return(mock.Result(mock.RedisInt64(0))),
	)

	if ok, _ := s.Exists(context.Background(), "k"); !ok {
		t.Error("expected true")
	}
	if ok, _ := s.Exists(context.Background(), "k"); ok {
		t.Error("expected false")
	}
}

func TestScan_FollowsCursor(t *testing.T) {
	s, c := newMockStore(t)
	gomock.InOrder(
		c.EXPECT().Do(gomock.Any(), cmdIs("SCAN", "0")).Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(42),
			mock.RedisArray(mock.RedisString("resumechat:doc:1")),
		))),
		c.EXPECT().Do(gomock.Any(), cmdIs("SCAN", "42")).Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0),
			mock.RedisArray(mock.RedisString("resumechat:doc:2")),
		))),
	)

	keys, err := s.Scan(context.Background(), "resumechat:doc:*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %v", keys)
	}
}
