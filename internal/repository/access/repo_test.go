package access

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domaccess "github.com/kailas-cloud/resumechat/internal/domain/access"
)

func TestCreateAndGetByToken(t *testing.T) {
	repo, _ := newTestRepo(t)
	req := domaccess.New("recruiter@example.com", "tok-1", 1000)

	if err := repo.Create(context.Background(), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByToken(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email() != "recruiter@example.com" || got.Status() != domaccess.StatusPending || got.RequestedAt() != 1000 {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestGetByToken_Unknown(t *testing.T) {
	repo, _ := newTestRepo(t)
	if _, err := repo.GetByToken(context.Background(), "nope"); !errors.Is(err, domain.ErrInvalidAccessToken) {
		t.Fatalf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestSave_UpdatesStatus(t *testing.T) {
	repo, ms := newTestRepo(t)
	req := domaccess.New("a@b.co", "tok", 1)
	if err := repo.Create(context.Background(), &req); err != nil {
		t.Fatalf("create: %v", err)
	}

	verified := req.Verify(2)
	if err := repo.Save(context.Background(), &verified); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, _ := repo.GetByToken(context.Background(), "tok")
	if !got.IsVerified() || got.VerifiedAt() != 2 {
		t.Errorf("unexpected request: %+v", got)
	}
	if len(ms.lists[emailPrefix+"a@b.co"]) != 1 {
		t.Error("Save must not re-index the email")
	}
}

func TestListByEmail(t *testing.T) {
	repo, _ := newTestRepo(t)
	for _, tok := range []string{"t1", "t2"} {
		req := domaccess.New("a@b.co", tok, 1)
		if err := repo.Create(context.Background(), &req); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	got, err := repo.ListByEmail(context.Background(), "a@b.co")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Token() != "t2" {
		t.Errorf("unexpected requests: %+v", got)
	}

	none, err := repo.ListByEmail(context.Background(), "other@b.co")
	if err != nil || none != nil {
		t.Errorf("ListByEmail(other) = %v, %v", none, err)
	}
}
