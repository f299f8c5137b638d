package redis

import (
	"errors"
	"slices"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/resumechat/internal/db"
)

func newMockStore(t *testing.T) (*Store, *mock.Client) {
	t.Helper()
	c := mock.NewClient(gomock.NewController(t))
	return NewStoreForTest(c), c
}

// cmdIs matches a command by name and, optionally, its first argument.
func cmdIs(name string, key ...string) gomock.Matcher {
	return mock.MatchFn(func(cmd []string) bool {
		if cmd[0] != name {
			return false
		}
		return len(key) == 0 || (len(cmd) > 1 && cmd[1] == key[0])
	})
}

func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}

func assertContains(t *testing.T, args []string, want string) {
	t.Helper()
	if !slices.Contains(args, want) {
		t.Errorf("expected %q in %v", want, args)
	}
}
