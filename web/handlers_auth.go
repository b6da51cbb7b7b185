package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"plaza/auth"
	"plaza/realtime"
	"plaza/session"
)

func (s *Server) handleLoginView(w http.ResponseWriter, _ *http.Request) {
	renderPage(w, s.log, "login.html", nil)
}

// handleLogin authenticates the form credentials. Success binds a
// fresh session and lands on the home page; any failure goes to the
// failure view with no hint about which credential was wrong.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/faillogin", http.StatusFound)
		return
	}

	user, sess, err := s.auth.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		http.Redirect(w, r, "/faillogin", http.StatusFound)
		return
	}

	token, err := s.signer.Sign(sess.ID, s.sessionTTL)
	if err != nil {
		s.log.Error("sign session token", "user", user.Username, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	session.SetCookie(w, token, sess.ExpiresAt)

	s.metrics.Logins.Inc()
	s.log.Info("user logged in", "user", user.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleFailLogin(w http.ResponseWriter, _ *http.Request) {
	renderPage(w, s.log, "faillogin.html", nil)
}

func (s *Server) handleRegisterView(w http.ResponseWriter, _ *http.Request) {
	renderPage(w, s.log, "register.html", nil)
}

// handleRegister creates an account from the form and sends the
// browser to the login page. Duplicates and invalid forms both land on
// the failure view.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/failsignup", http.StatusFound)
		return
	}

	age, _ := strconv.Atoi(r.PostFormValue("age"))
	req := auth.RegisterRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
		Name:     r.PostFormValue("name"),
		Address:  r.PostFormValue("address"),
		Age:      age,
		Phone:    r.PostFormValue("phone"),
	}

	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		s.log.Warn("registration rejected", "user", req.Username, "error", err)
		http.Redirect(w, r, "/failsignup", http.StatusFound)
		return
	}

	s.metrics.UsersRegistered.Inc()
	s.log.Info("user registered", "user", user.Username)
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (s *Server) handleFailSignup(w http.ResponseWriter, _ *http.Request) {
	renderPage(w, s.log, "failsignup.html", nil)
}

// handleLogged is the API-flavored session probe: JSON either way,
// never a redirect.
func (s *Server) handleLogged(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	_, user, err := s.currentUser(r)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  http.StatusUnauthorized,
			"message": "no credentials",
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"user":  user.Username,
		"admin": user.Admin,
	})
}

// handleLogout destroys the session and says goodbye by name. Store
// failures during teardown are surfaced, not swallowed.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	name := ""
	sessionID, user, err := s.currentUser(r)
	if err == nil {
		name = user.Username
		if err := s.auth.Logout(r.Context(), sessionID); err != nil {
			s.log.Error("logout", "user", name, "error", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
	}
	session.ClearCookie(w)
	renderPage(w, s.log, "logout.html", struct{ Name string }{Name: name})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	renderPage(w, s.log, "home.html", user)
}

// handleWS upgrades to the realtime feed. The session is optional
// here: anonymous connections still get the snapshot replay, they just
// publish without a bound identity.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	identity := ""
	if _, user, err := s.currentUser(r); err == nil {
		identity = user.Username
	}
	realtime.ServeWS(s.hub, s.log, w, r, identity, s.wsBufferSize)
}
