package access

import (
	"fmt"
	"net/mail"
	"strings"
)

// Status is the verification state of an access request.
type Status string

// Access request states.
const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
)

// Request is a sign-in attempt keyed by a one-time token.
type Request struct {
	email       string
	token       string
	status      Status
	requestedAt int64 // unix millis
	verifiedAt  int64 // unix millis, 0 while pending
}

// NormalizeEmail validates and lowercases an email address.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("invalid email %q", email)
	}
	return strings.ToLower(addr.Address), nil
}

// New creates a pending access request.
func New(email, token string, requestedAt int64) Request {
	return Request{email: email, token: token, status: StatusPending, requestedAt: requestedAt}
}

// Reconstruct creates a Request without validation (storage hydration).
func Reconstruct(email, token string, status Status, requestedAt, verifiedAt int64) Request {
	return Request{email: email, token: token, status: status, requestedAt: requestedAt, verifiedAt: verifiedAt}
}

// Verify returns a verified copy stamped at the given time.
func (r *Request) Verify(at int64) Request {
	return Request{email: r.email, token: r.token, status: StatusVerified, requestedAt: r.requestedAt, verifiedAt: at}
}

// Email returns the requester email.
func (r *Request) Email() string { return r.email }

// Token returns the access token.
func (r *Request) Token() string { return r.token }

// Status returns the verification state.
func (r *Request) Status() Status { return r.status }

// RequestedAt returns the creation time (unix millis).
func (r *Request) RequestedAt() int64 { return r.requestedAt }

// VerifiedAt returns the verification time (unix millis), 0 while pending.
func (r *Request) VerifiedAt() int64 { return r.verifiedAt }

// IsVerified reports whether the request has been verified.
func (r *Request) IsVerified() bool { return r.status == StatusVerified }
