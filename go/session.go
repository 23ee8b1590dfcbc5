package portalserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/telconova/portal/internal/shared/session"
)

const (
	// SessionHeader carries the session id for API clients.
	SessionHeader = "X-Session-ID"
	// SessionCookie carries the session id for browsers.
	SessionCookie = "telconova_session"

	sessionContextKey = "telconova.session"
	sessionCookieAge  = 60 * 60 * 24 * 30
)

// SessionResolver builds the session for an id; a blank id starts a new one.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (session.Session, error)
}

// SessionMiddleware resolves the caller's session once per request and
// echoes its id back in the header and cookie.
func SessionMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := resolver.Resolve(c.Request.Context(), requestSessionID(c))
		if err != nil {
			respondServiceError(c, err)
			c.Abort()
			return
		}
		setSession(c, sess)
		c.Next()
	}
}

func requestSessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}

func setSession(c *gin.Context, sess session.Session) {
	c.Set(sessionContextKey, sess)
	c.Header(SessionHeader, sess.ID)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, sess.ID, sessionCookieAge, "/", "", false, true)
}

// currentSession returns the resolved session, or an anonymous one bound to
// the request's id when the middleware is not installed.
func currentSession(c *gin.Context) session.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(session.Session); ok {
			return sess
		}
	}
	return session.Anonymous(requestSessionID(c))
}
