package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-wardlow/tt/internal/auth"
	"github.com/noah-wardlow/tt/internal/domain/user"
)

// identityKey is the gin context key the request identity lives under.
const identityKey = "identity"

// Identity is the per-request resolved (user, session) pair. Both fields
// are nil for an anonymous request. It is set exactly once per request and
// never shared across requests.
type Identity struct {
	User    *user.User
	Session *auth.Session
}

// SessionResolver is the auth service operation the middleware depends on.
type SessionResolver interface {
	SessionFromRequest(ctx context.Context, r *http.Request) (*auth.Session, *user.User, error)
}

// IdentityContext resolves the caller's session on every request and
// publishes it into the request context. Failures degrade the caller to
// anonymous instead of failing the request: a broken auth backend must not
// take the whole pipeline down.
func IdentityContext(resolver SessionResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Identity{}
		sess, u, err := resolver.SessionFromRequest(c.Request.Context(), c.Request)
		switch {
		case err != nil:
			logger.Warn("session lookup failed, request continues as anonymous", zap.Error(err))
		case sess != nil && u != nil:
			identity = Identity{User: u, Session: sess}
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// Current returns the request identity. The zero Identity (anonymous) is
// returned when the middleware has not run.
func Current(c *gin.Context) Identity {
	val, ok := c.Get(identityKey)
	if !ok {
		return Identity{}
	}
	identity, ok := val.(Identity)
	if !ok {
		return Identity{}
	}
	return identity
}

// RequireUser rejects anonymous requests with an empty-body 401 before the
// handler runs.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Current(c).User == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
