package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/telconova/portal/internal/domains/auth/domain"
	"github.com/telconova/portal/internal/domains/auth/ports"
	"github.com/telconova/portal/internal/shared/notify"
	"github.com/telconova/portal/internal/shared/session"
	"github.com/telconova/portal/internal/shared/validation"
)

// DefaultVerificationCode is accepted by VerifyCode unless configured otherwise.
const DefaultVerificationCode = "123456"

// Service implements login, logout and session resolution on top of the
// session vault.
type Service struct {
	gateway          ports.Gateway
	vault            ports.Vault
	notifier         notify.Notifier
	logger           *slog.Logger
	verificationCode string
	newID            func() string
	pinned           string
}

type Option func(*Service)

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithVerificationCode(code string) Option {
	return func(s *Service) {
		if code = strings.TrimSpace(code); code != "" {
			s.verificationCode = code
		}
	}
}

func WithSessionIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPinnedSession keeps id across logins. Single-user processes such as
// the CLI use it for their one local namespace; every other session gets a
// fresh id on login.
func WithPinnedSession(id string) Option {
	return func(s *Service) {
		s.pinned = strings.TrimSpace(id)
	}
}

func NewService(gateway ports.Gateway, vault ports.Vault, opts ...Option) *Service {
	s := &Service{
		gateway:          gateway,
		vault:            vault,
		notifier:         notify.Nop{},
		verificationCode: DefaultVerificationCode,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Login exchanges the credentials for a token and stores it with the profile
// under a newly issued session id. Cached collections of sessionID move to
// the new session and sessionID itself is emptied, so an id known before
// login never carries the token.
func (s *Service) Login(ctx context.Context, sessionID string, form validation.LoginForm) (ports.LoginResult, error) {
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate().Err(); err != nil {
		return ports.LoginResult{}, mapError(err)
	}
	sess := session.Anonymous(sessionID)
	creds, err := s.gateway.Login(ctx, form.Email, form.Password)
	if err == nil && strings.TrimSpace(creds.AccessToken) == "" {
		err = &ports.RejectedError{}
	}
	if err != nil {
		loginErr := &LoginError{Message: failureMessage(err, MsgLoginFailed), Err: err}
		s.notify(ctx, sess.ID, notify.LevelError, loginErr.Message)
		return ports.LoginResult{}, loginErr
	}

	user := creds.User
	if user == nil {
		me, err := s.gateway.Me(ctx, creds.AccessToken)
		if err != nil {
			s.logWarn(ctx, "profile lookup after login failed", slog.String("session.id", sess.ID), slog.String("error", err.Error()))
		} else {
			user = &me
		}
	}
	if sess.ID != s.pinned || sess.ID == "" {
		previous := sess.Namespace()
		sess.ID = s.newID()
		if err := s.vault.Rotate(ctx, previous, sess.Namespace()); err != nil {
			return ports.LoginResult{}, err
		}
	}
	if err := s.vault.Save(ctx, sess.Namespace(), creds.AccessToken, user); err != nil {
		return ports.LoginResult{}, err
	}
	sess.Token = creds.AccessToken
	if user != nil {
		sess.UserID = user.ID
	}
	return ports.LoginResult{Session: sess, User: user}, nil
}

func (s *Service) Register(ctx context.Context, form validation.RegisterForm) error {
	form.Email = strings.TrimSpace(form.Email)
	if err := form.Validate().Err(); err != nil {
		return mapError(err)
	}
	if err := s.gateway.Register(ctx, form); err != nil {
		return &LoginError{Message: failureMessage(err, MsgRegisterFailed), Err: err}
	}
	return nil
}

// Logout drops the token and profile. Cached orders and clients stay.
func (s *Service) Logout(ctx context.Context, sess session.Session) error {
	if sess.ID == "" {
		return nil
	}
	return s.vault.Clear(ctx, sess.Namespace())
}

// Resolve builds the session for sessionID from the vault. A blank id yields
// a new anonymous session.
func (s *Service) Resolve(ctx context.Context, sessionID string) (session.Session, error) {
	sess := session.Anonymous(sessionID)
	if sess.ID == "" {
		sess.ID = s.newID()
		return sess, nil
	}
	token, err := s.vault.Token(ctx, sess.Namespace())
	if err != nil {
		return session.Session{}, err
	}
	sess.Token = token
	if token == "" {
		return sess, nil
	}
	user, err := s.vault.User(ctx, sess.Namespace())
	if err != nil {
		return session.Session{}, err
	}
	if user != nil {
		sess.UserID = user.ID
	}
	return sess, nil
}

func (s *Service) CurrentUser(ctx context.Context, sess session.Session) (domain.User, error) {
	if !sess.HasToken() {
		return domain.User{}, ports.ErrUnauthenticated
	}
	user, err := s.vault.User(ctx, sess.Namespace())
	if err != nil {
		return domain.User{}, err
	}
	if user != nil {
		return *user, nil
	}
	me, err := s.gateway.Me(ctx, sess.Token)
	if err != nil {
		return domain.User{}, err
	}
	if err := s.vault.Save(ctx, sess.Namespace(), sess.Token, &me); err != nil {
		return domain.User{}, err
	}
	return me, nil
}

func (s *Service) VerifyCode(_ context.Context, code string) error {
	code = strings.TrimSpace(code)
	if subtle.ConstantTimeCompare([]byte(code), []byte(s.verificationCode)) != 1 {
		return ports.ErrInvalidCode
	}
	return nil
}

// failureMessage prefers the backend's own message for rejections and reports
// anything else as a connection problem.
func failureMessage(err error, fallback string) string {
	var rejected *ports.RejectedError
	if errors.As(err, &rejected) {
		if msg := strings.TrimSpace(rejected.Message); msg != "" {
			return msg
		}
		return fallback
	}
	return MsgConnectionError
}

func (s *Service) notify(ctx context.Context, sessionID string, level notify.Level, msg string) {
	s.notifier.Notify(ctx, notify.NewNotice(sessionID, level, msg))
}

func (s *Service) logWarn(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

var _ ports.Service = (*Service)(nil)
