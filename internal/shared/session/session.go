// Package session defines the explicit per-caller context that services
// receive instead of reading a token from shared storage.
package session

import (
	"strings"

	"github.com/google/uuid"

	"github.com/telconova/portal/internal/shared/jsonval"
)

// Session identifies a caller's cache namespace and, once logged in, the
// bearer token used for upstream calls.
type Session struct {
	ID     string
	Token  string
	UserID jsonval.Value
}

// New starts an anonymous session with a fresh identifier.
func New() Session {
	return Session{ID: uuid.NewString()}
}

// Anonymous returns a session bound to id without credentials.
func Anonymous(id string) Session {
	return Session{ID: strings.TrimSpace(id)}
}

func (s Session) HasToken() bool {
	return strings.TrimSpace(s.Token) != ""
}

// Namespace is the cache namespace for the session.
func (s Session) Namespace() string {
	return s.ID
}
