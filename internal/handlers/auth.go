package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthbook/web/internal/models"
	"healthbook/web/internal/session"
)

func (h HandlerSet) LoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{"Title": "Sign in"})
}

func (h HandlerSet) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, token, err := h.sessions.Login(c.Request.Context(), email, password)
	if err != nil {
		h.render(c, http.StatusUnauthorized, "login.html", gin.H{
			"Title": "Sign in",
			"Error": userMessage(err),
			"Email": email,
		})
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h HandlerSet) RegisterForm(c *gin.Context) {
	h.render(c, http.StatusOK, "register.html", gin.H{"Title": "Create account", "Name": ""})
}

func (h HandlerSet) RegisterSubmit(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")

	role, roleErr := models.ParseRole(c.PostForm("role"))
	// admin accounts are provisioned out of band, never via self-registration
	if roleErr != nil || role == models.RoleAdmin {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title": "Create account",
			"Error": "Please choose a valid account type.",
			"Name":  name,
			"Email": email,
		})
		return
	}

	_, token, err := h.sessions.Register(c.Request.Context(), name, email, password, role)
	if err != nil {
		h.render(c, http.StatusBadRequest, "register.html", gin.H{
			"Title": "Create account",
			"Error": userMessage(err),
			"Name":  name,
			"Email": email,
		})
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h HandlerSet) AdminLoginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "admin_login.html", gin.H{"Title": "Admin sign in"})
}

// AdminLogin performs a normal login and then re-checks the resulting role.
// The login form cannot express a required role at submit time, so a
// non-admin session is torn down again before anything renders under it.
func (h HandlerSet) AdminLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	sess, token, err := h.sessions.Login(c.Request.Context(), email, password)
	if err != nil {
		h.render(c, http.StatusUnauthorized, "admin_login.html", gin.H{
			"Title": "Admin sign in",
			"Error": userMessage(err),
			"Email": email,
		})
		return
	}

	if !sess.Is(models.RoleAdmin) {
		h.sessions.Logout(c.Request.Context(), token)
		h.render(c, http.StatusForbidden, "admin_login.html", gin.H{
			"Title": "Admin sign in",
			"Error": "Access denied. Admin credentials required.",
			"Email": email,
		})
		return
	}

	h.setSessionCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/admin")
}

func (h HandlerSet) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.Security.CookieName); err == nil {
		h.sessions.Logout(c.Request.Context(), token)
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h HandlerSet) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(
		h.cfg.Security.CookieName,
		token,
		int(h.cfg.Security.SessionTTL.Seconds()),
		"/",
		"",
		h.cfg.Security.CookieSecure,
		true,
	)
}

func (h HandlerSet) clearSessionCookie(c *gin.Context) {
	c.SetCookie(h.cfg.Security.CookieName, "", -1, "/", "", h.cfg.Security.CookieSecure, true)
}

func userMessage(err error) string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "Something went wrong. Please try again."
}
