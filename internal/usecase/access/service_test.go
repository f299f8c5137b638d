package access

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/resumechat/internal/domain"
	domaccess "github.com/kailas-cloud/resumechat/internal/domain/access"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	byToken map[string]domaccess.Request
	saves   int
}

func newMemRepo() *memRepo {
	return &memRepo{byToken: map[string]domaccess.Request{}}
}

func (m *memRepo) Create(_ context.Context, req *domaccess.Request) error {
	m.byToken[req.Token()] = *req
	return nil
}

func (m *memRepo) Save(_ context.Context, req *domaccess.Request) error {
	m.saves++
	m.byToken[req.Token()] = *req
	return nil
}

func (m *memRepo) GetByToken(_ context.Context, token string) (domaccess.Request, error) {
	r, ok := m.byToken[token]
	if !ok {
		return domaccess.Request{}, domain.ErrInvalidAccessToken
	}
	return r, nil
}

func (m *memRepo) ListByEmail(_ context.Context, email string) ([]domaccess.Request, error) {
	var out []domaccess.Request
	for _, r := range m.byToken {
		if r.Email() == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestRequest_PendingWithoutBypass(t *testing.T) {
	svc := New(newMemRepo(), false, nil)

	req, err := svc.Request(context.Background(), "Eda@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Status() != domaccess.StatusPending {
		t.Errorf("expected pending, got %q", req.Status())
	}
	if req.Email() != "eda@example.com" || req.Token() == "" {
		t.Errorf("unexpected request: %q %q", req.Email(), req.Token())
	}
}

func TestRequest_VerifiedWithBypass(t *testing.T) {
	svc := New(newMemRepo(), true, nil)

	req, err := svc.Request(context.Background(), "eda@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !req.IsVerified() || req.VerifiedAt() == 0 {
		t.Errorf("expected verified request, got %+v", req)
	}
}

func TestRequest_InvalidEmail(t *testing.T) {
	svc := New(newMemRepo(), false, nil)

	if _, err := svc.Request(context.Background(), "not-an-email"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestVerify_Flow(t *testing.T) {
	repo := newMemRepo()
	svc := New(repo, false, nil)
	ctx := context.Background()

	req, _ := svc.Request(ctx, "eda@example.com")
	if ok, _ := svc.Check(ctx, "eda@example.com"); ok {
		t.Fatal("pending request must not grant access")
	}

	if _, err := svc.Verify(ctx, req.Token()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := svc.Check(ctx, "EDA@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("expected access after verification")
	}

	if _, err := svc.Verify(ctx, req.Token()); err != nil {
		t.Fatalf("second verify: %v", err)
	}
	if repo.saves != 1 {
		t.Errorf("expected a single save, got %d", repo.saves)
	}
}

func TestVerify_UnknownToken(t *testing.T) {
	svc := New(newMemRepo(), false, nil)

	if _, err := svc.Verify(context.Background(), "nope"); !errors.Is(err, domain.ErrInvalidAccessToken) {
		t.Errorf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestCheck_BypassAllowsAnyone(t *testing.T) {
	svc := New(newMemRepo(), true, nil)

	ok, err := svc.Check(context.Background(), "whatever")
	if err != nil || !ok {
		t.Errorf("expected bypass to allow, got %v %v", ok, err)
	}
}
