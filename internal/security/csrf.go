package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
)

// CSRFToken derives a form token from the session id. The token is only valid
// for the session it was derived from, so it cannot be replayed across users.
func CSRFToken(secret string, sessionID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("csrf\n"))
	mac.Write([]byte(sessionID))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func ValidateCSRFToken(secret string, sessionID string, token string) bool {
	expected := CSRFToken(secret, sessionID)
	return hmac.Equal([]byte(expected), []byte(token))
}
