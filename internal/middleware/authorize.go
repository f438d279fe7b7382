package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthbook/web/internal/models"
)

// AuthState makes the session lifecycle explicit instead of inferring it from
// the presence of values. Uninitialized only exists before the session
// middleware has run; no gate decision is ever made against it other than
// refusing to render.
type AuthState int

const (
	StateUninitialized AuthState = iota
	StateAnonymous
	StateAuthenticated
)

type Identity struct {
	State   AuthState
	Session models.Session
}

type Requirement int

const (
	RequireAny Requirement = iota
	RequirePatient
	RequireDoctor
	RequireAdmin
)

func (r Requirement) role() (models.Role, bool) {
	switch r {
	case RequirePatient:
		return models.RolePatient, true
	case RequireDoctor:
		return models.RoleDoctor, true
	case RequireAdmin:
		return models.RoleAdmin, true
	default:
		return "", false
	}
}

type Decision int

const (
	DecisionRender Decision = iota
	DecisionRedirectLogin
)

// Authorize decides whether a protected view may render. A specific
// requirement needs an exact role match; wrong role and anonymous collapse
// into the same login redirect.
func Authorize(identity Identity, required Requirement) Decision {
	if identity.State != StateAuthenticated {
		return DecisionRedirectLogin
	}
	if role, ok := required.role(); ok && !identity.Session.Is(role) {
		return DecisionRedirectLogin
	}
	return DecisionRender
}

func Gate(required Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Authorize(CurrentIdentity(c), required) == DecisionRedirectLogin {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// PublicOnly keeps authenticated identities out of the auth screens: any
// established session is sent to the default landing view regardless of role.
func PublicOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c).State == StateAuthenticated {
			c.Redirect(http.StatusSeeOther, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
