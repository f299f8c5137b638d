package message

import (
	"fmt"
	"time"
)

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultUserID is stamped on messages that arrive without an owner.
const DefaultUserID = "default"

// MaxContentSize bounds a single message body.
const MaxContentSize = 32768

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant:
		return Role(s), nil
	default:
		return "", fmt.Errorf("role must be %q or %q, got %q", RoleUser, RoleAssistant, s)
	}
}

// Message is an append-only chat log entry.
type Message struct {
	id        string
	role      Role
	content   string
	timestamp int64 // unix millis
	userID    string
}

// New validates and creates a Message. A zero timestamp is replaced with now.
func New(id string, role Role, content string, timestamp int64, userID string) (Message, error) {
	if id == "" {
		return Message{}, fmt.Errorf("message ID is required")
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Message{}, err
	}
	if content == "" {
		return Message{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Message{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if timestamp <= 0 {
		timestamp = time.Now().UnixMilli()
	}
	if userID == "" {
		userID = DefaultUserID
	}
	return Message{id: id, role: role, content: content, timestamp: timestamp, userID: userID}, nil
}

// Reconstruct creates a Message without validation (storage hydration).
func Reconstruct(id string, role Role, content string, timestamp int64, userID string) Message {
	return Message{id: id, role: role, content: content, timestamp: timestamp, userID: userID}
}

// ID returns the message identifier.
func (m *Message) ID() string { return m.id }

// Role returns the author role.
func (m *Message) Role() Role { return m.role }

// Content returns the message body.
func (m *Message) Content() string { return m.content }

// Timestamp returns the creation time (unix millis).
func (m *Message) Timestamp() int64 { return m.timestamp }

// UserID returns the owning user.
func (m *Message) UserID() string { return m.userID }
