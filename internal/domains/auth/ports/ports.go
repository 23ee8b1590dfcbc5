package ports

import (
	"context"
	"errors"

	"github.com/telconova/portal/internal/domains/auth/domain"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

var (
	ErrUnauthenticated = errors.New("session has no access token")
	ErrRejected        = errors.New("backend rejected the request")
	ErrUpstream        = errors.New("backend request failed")
	ErrInvalidCode     = errors.New("verification code does not match")
)

// RejectedError is a non-2xx backend answer. Message is the backend's own
// explanation and may be empty.
type RejectedError struct {
	Message string
	Err     error
}

func (e *RejectedError) Error() string {
	if e.Message != "" {
		return ErrRejected.Error() + ": " + e.Message
	}
	return ErrRejected.Error()
}

func (e *RejectedError) Is(target error) bool { return target == ErrRejected }

func (e *RejectedError) Unwrap() error { return e.Err }

// Credentials is a successful login as the backend reports it. User is nil
// when the login response carried no profile.
type Credentials struct {
	AccessToken string
	User        *domain.User
}

// Gateway is the backend's auth resource.
type Gateway interface {
	Login(ctx context.Context, email, password string) (Credentials, error)
	Me(ctx context.Context, token string) (domain.User, error)
	Register(ctx context.Context, form validation.RegisterForm) error
}

// Vault stores a session's token and profile.
type Vault interface {
	Token(ctx context.Context, namespace string) (string, error)
	User(ctx context.Context, namespace string) (*domain.User, error)
	Save(ctx context.Context, namespace, token string, user *domain.User) error
	Clear(ctx context.Context, namespace string) error
	// Rotate moves the cached collections of from to to and drops every
	// entry of from, token included.
	Rotate(ctx context.Context, from, to string) error
}

// LoginResult is the session bound to the new token.
type LoginResult struct {
	Session session.Session `json:"-"`
	User    *domain.User    `json:"user,omitempty"`
}

type Service interface {
	Login(ctx context.Context, sessionID string, form validation.LoginForm) (LoginResult, error)
	Register(ctx context.Context, form validation.RegisterForm) error
	Logout(ctx context.Context, sess session.Session) error
	Resolve(ctx context.Context, sessionID string) (session.Session, error)
	CurrentUser(ctx context.Context, sess session.Session) (domain.User, error)
	VerifyCode(ctx context.Context, code string) error
}
