package web

import (
	"context"
	"net/http"
	"time"

	"plaza/domain"
	"plaza/session"
)

type contextKeyUser struct{}

// ContextKeyUser carries the resolved account through the guarded routes.
var ContextKeyUser = contextKeyUser{}

// UserFrom retrieves the authenticated account from the context.
func UserFrom(ctx context.Context) (domain.User, bool) {
	user, ok := ctx.Value(ContextKeyUser).(domain.User)
	return user, ok
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// recoverer keeps a handler panic from taking the worker down with it.
// The detail stays in the log; the client only ever sees a generic 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("handler panic",
					"path", r.URL.Path,
					"panic", rec,
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// rollSession pushes the session expiry forward on every request that
// carries a valid cookie, so a session only dies after a full idle
// window with no traffic at all. Requests without a resolvable session
// pass through untouched.
func (s *Server) rollSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(session.CookieName); err == nil {
			if sessionID, err := s.signer.Parse(cookie.Value); err == nil {
				if refreshed, err := s.sessions.Refresh(r.Context(), sessionID, s.sessionTTL); err == nil {
					if token, err := s.signer.Sign(sessionID, s.sessionTTL); err == nil {
						session.SetCookie(w, token, refreshed.ExpiresAt)
					}
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// checkAuth guards the browser-facing routes: anonymous requests get
// redirected to the login form rather than a bare status code.
func (s *Server) checkAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, user, err := s.currentUser(r)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		ctx := context.WithValue(r.Context(), ContextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
