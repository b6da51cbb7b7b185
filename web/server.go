// Package web is the HTTP surface of one worker process: the
// credential flows, the authenticated API, the websocket upgrade and
// the operational endpoints. Template rendering here is deliberately
// minimal glue; the engineering lives in the gateway and broadcast
// layers it delegates to.
package web

import (
	"log/slog"
	"net/http"
	"time"

	"plaza/auth"
	"plaza/domain"
	"plaza/metrics"
	"plaza/realtime"
	"plaza/services"
	"plaza/session"

	"github.com/go-chi/chi/v5"
)

type Server struct {
	log          *slog.Logger
	auth         services.IAuthService
	sessions     session.Store
	signer       *auth.TokenSigner
	hub          *realtime.Hub
	metrics      *metrics.Metrics
	sessionTTL   time.Duration
	wsBufferSize int
}

func NewServer(
	log *slog.Logger,
	authService services.IAuthService,
	sessions session.Store,
	signer *auth.TokenSigner,
	hub *realtime.Hub,
	m *metrics.Metrics,
	sessionTTL time.Duration,
	wsBufferSize int,
) *Server {
	return &Server{
		log:          log,
		auth:         authService,
		sessions:     sessions,
		signer:       signer,
		hub:          hub,
		metrics:      m,
		sessionTTL:   sessionTTL,
		wsBufferSize: wsBufferSize,
	}
}

// Router assembles the full route surface. Credential flows stay open;
// everything below the checkAuth guard requires a resolvable session.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(s.rollSession)

	r.Get("/login", s.handleLoginView)
	r.Post("/login", s.handleLogin)
	r.Get("/faillogin", s.handleFailLogin)
	r.Get("/register", s.handleRegisterView)
	r.Post("/register", s.handleRegister)
	r.Get("/failsignup", s.handleFailSignup)
	r.Get("/logged", s.handleLogged)
	r.Get("/logout", s.handleLogout)
	r.Get("/ws", s.handleWS)
	r.Get("/metrics", s.metrics.Handler().ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(s.checkAuth)
		r.Get("/", s.handleHome)
		r.Get("/info", s.handleInfo)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "file not found", http.StatusNotFound)
	})

	return r
}

// currentUser resolves the request's session cookie to an account:
// cookie -> signed token -> session id -> identity lookup.
func (s *Server) currentUser(r *http.Request) (string, domain.User, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return "", domain.User{}, err
	}
	sessionID, err := s.signer.Parse(cookie.Value)
	if err != nil {
		return "", domain.User{}, err
	}
	user, err := s.auth.CurrentUser(r.Context(), sessionID)
	if err != nil {
		return "", domain.User{}, err
	}
	return sessionID, user, nil
}
