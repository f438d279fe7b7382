package middleware

import (
	"crypto/hmac"
	"net/http"

	"github.com/gin-gonic/gin"
)

const csrfFormField = "_csrf"

// CSRF checks the form token on every state-changing request made with an
// established session. Anonymous posts (login, register) have no session to
// bind a token to and are left alone.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if CurrentIdentity(c).State != StateAuthenticated {
			c.Next()
			return
		}

		expected := SessionCSRFToken(c)
		submitted := c.PostForm(csrfFormField)
		if expected == "" || !hmac.Equal([]byte(expected), []byte(submitted)) {
			c.String(http.StatusForbidden, "invalid or missing form token")
			c.Abort()
			return
		}

		c.Next()
	}
}
