package session

import (
	"net/http"
	"time"
)

// CookieName is the session cookie. The value is a signed token whose
// only payload is the opaque session id.
const CookieName = "plaza_session"

// SetCookie issues (or re-issues) the session cookie. Called on login
// and on every authenticated request so the expiry rolls.
func SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the client.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
