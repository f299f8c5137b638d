package session

import "time"

// Session is a time-boxed visitor session. Expiry is evaluated lazily at read time.
type Session struct {
	id         string
	userID     string
	startTime  int64 // unix millis
	expiration int64 // unix millis
	active     bool
}

// New creates an active session starting at now and expiring after ttl.
func New(id, userID string, now time.Time, ttl time.Duration) Session {
	return Session{
		id:         id,
		userID:     userID,
		startTime:  now.UnixMilli(),
		expiration: now.Add(ttl).UnixMilli(),
		active:     true,
	}
}

// Reconstruct creates a Session without validation (storage hydration).
func Reconstruct(id, userID string, startTime, expiration int64, active bool) Session {
	return Session{id: id, userID: userID, startTime: startTime, expiration: expiration, active: active}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the owning user.
func (s *Session) UserID() string { return s.userID }

// StartTime returns the creation time (unix millis).
func (s *Session) StartTime() int64 { return s.startTime }

// ExpirationTime returns the expiry time (unix millis).
func (s *Session) ExpirationTime() int64 { return s.expiration }

// Active reports whether the session has not been ended explicitly.
func (s *Session) Active() bool { return s.active }

// IsLive reports whether the session is active and unexpired at now.
func (s *Session) IsLive(now time.Time) bool {
	return s.active && s.expiration > now.UnixMilli()
}
