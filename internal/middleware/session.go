package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"healthbook/web/internal/config"
	"healthbook/web/internal/models"
	"healthbook/web/internal/security"
	"healthbook/web/internal/session"
)

const (
	identityKey  = "identity"
	csrfTokenKey = "csrf_token"
)

// Session resolves the identity for every request before any gate or handler
// runs, so downstream code never observes StateUninitialized.
func Session(store *session.Store, cfg *config.SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := Identity{State: StateAnonymous}

		token, err := c.Cookie(cfg.CookieName)
		if err == nil && token != "" {
			sess, sid, loadErr := store.Load(c.Request.Context(), token)
			switch {
			case loadErr == nil:
				identity = Identity{State: StateAuthenticated, Session: sess}
				c.Set(csrfTokenKey, security.CSRFToken(cfg.SessionSecret, sid))
			case errors.Is(loadErr, session.ErrNoSession):
				// stale cookie; drop it so the browser stops sending it
				c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.CookieSecure, true)
			}
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{State: StateUninitialized}
	}
	identity, ok := value.(Identity)
	if !ok {
		return Identity{State: StateUninitialized}
	}
	return identity
}

func CurrentSession(c *gin.Context) models.Session {
	return CurrentIdentity(c).Session
}

func SessionCSRFToken(c *gin.Context) string {
	return c.GetString(csrfTokenKey)
}
