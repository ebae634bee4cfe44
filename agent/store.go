// Package agent hosts a form dialog behind the eino agent interface and
// provides the session persistence the per-turn engine deliberately does not
// own: between turns the conversation exists only as a stored snapshot.
package agent

import (
	"context"
	"sync"
	"time"
)

// Session is everything one in-flight conversation needs to resume: the
// caller's form values and the engine's serialized state snapshot.
type Session[T any] struct {
	Values  T         `json:"values"`
	State   []byte    `json:"state"`
	Updated time.Time `json:"updated"`
}

// SessionStore persists sessions keyed by a routing key carried in the
// context.
type SessionStore[T any] interface {
	Load(ctx context.Context, key string) (*Session[T], bool, error)
	Save(ctx context.Context, key string, session *Session[T]) error
	Delete(ctx context.Context, key string) error
}

type sessionKeyContext struct{}

const defaultSessionKey = "default"

// WithSessionKey sets the routing key for session storage in the context.
func WithSessionKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, sessionKeyContext{}, key)
}

// SessionKeyFromContext gets the routing key from the context.
func SessionKeyFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(sessionKeyContext{})
	if value == nil {
		return "", false
	}
	key, ok := value.(string)
	return key, ok
}

func sessionKeyOrDefault(ctx context.Context) string {
	if key, ok := SessionKeyFromContext(ctx); ok && key != "" {
		return key
	}
	return defaultSessionKey
}

// MemorySessionStore is an in-memory store for tests and local usage.
type MemorySessionStore[T any] struct {
	mu       sync.RWMutex
	sessions map[string]*Session[T]
}

func NewMemorySessionStore[T any]() *MemorySessionStore[T] {
	return &MemorySessionStore[T]{sessions: make(map[string]*Session[T])}
}

func (m *MemorySessionStore[T]) Load(ctx context.Context, key string) (*Session[T], bool, error) {
	m.mu.RLock()
	session, ok := m.sessions[key]
	m.mu.RUnlock()
	return session, ok, nil
}

func (m *MemorySessionStore[T]) Save(ctx context.Context, key string, session *Session[T]) error {
	session.Updated = time.Now()
	m.mu.Lock()
	m.sessions[key] = session
	m.mu.Unlock()
	return nil
}

func (m *MemorySessionStore[T]) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.sessions, key)
	m.mu.Unlock()
	return nil
}
