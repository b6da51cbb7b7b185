package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"plaza/auth"
	"plaza/metrics"
	"plaza/notify"
	"plaza/realtime"
	"plaza/repositories"
	"plaza/services"
	"plaza/session"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
)

type discardNotifier struct{}

func (discardNotifier) Enqueue(notify.Notification) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := testLogger()
	store := session.NewMemoryStore()
	users := repositories.NewUserRepository(db)
	authSvc := services.NewAuthService(users, store, discardNotifier{}, "admin@example.com", 2*time.Minute, log)
	hub := realtime.NewHub(
		log,
		realtime.NewRegistry(),
		repositories.NewMessageRepository(db, log),
		repositories.NewProductRepository(db, log),
		metrics.New(),
	)

	return NewServer(log, authSvc, store, auth.NewTokenSigner("test-secret"), hub, metrics.New(), 2*time.Minute, 16)
}

func registerForm(username, password string) url.Values {
	return url.Values{
		"username": {username},
		"password": {password},
		"name":     {"Alice Doe"},
		"address":  {"1 Main St"},
		"age":      {"30"},
		"phone":    {"555-0100"},
	}
}

func postForm(router http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestServer_RegisterLoginLogged(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	// Given a fresh registration for alice
	w := postForm(router, "/register", registerForm("alice", "hunter2hunter2"))
	req.Equal(http.StatusFound, w.Code)
	req.Equal("/login", w.Header().Get("Location"))

	// When she logs in with the right password
	w = postForm(router, "/login", url.Values{"username": {"alice"}, "password": {"hunter2hunter2"}})
	req.Equal(http.StatusFound, w.Code)
	req.Equal("/", w.Header().Get("Location"))
	cookie := sessionCookie(t, w)

	// Then the session probe identifies her
	r := httptest.NewRequest(http.MethodGet, "/logged", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)
	var body struct {
		User  string `json:"user"`
		Admin bool   `json:"admin"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal("alice", body.User)
	req.False(body.Admin)
}

func TestServer_LoginWrongPassword(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	w := postForm(router, "/register", registerForm("alice", "hunter2hunter2"))
	req.Equal(http.StatusFound, w.Code)

	// Wrong password lands on the failure view with no session bound
	w = postForm(router, "/login", url.Values{"username": {"alice"}, "password": {"wrong-password"}})
	req.Equal(http.StatusFound, w.Code)
	req.Equal("/faillogin", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		req.NotEqual(session.CookieName, c.Name)
	}
}

func TestServer_DuplicateRegistration(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	w := postForm(router, "/register", registerForm("alice", "hunter2hunter2"))
	req.Equal(http.StatusFound, w.Code)
	req.Equal("/login", w.Header().Get("Location"))

	w = postForm(router, "/register", registerForm("alice", "otherpassword1"))
	req.Equal(http.StatusFound, w.Code)
	req.Equal("/failsignup", w.Header().Get("Location"))
}

func TestServer_LoggedWithoutSession(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	r := httptest.NewRequest(http.MethodGet, "/logged", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	// API flow: structured 401 body, never a redirect
	req.Equal(http.StatusUnauthorized, w.Code)
	var body struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal(http.StatusUnauthorized, body.Status)
	req.Equal("no credentials", body.Message)
}

func TestServer_GuardedRoutesRedirectAnonymous(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	for _, path := range []string{"/", "/info"} {
		r := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		req.Equal(http.StatusFound, w.Code, path)
		req.Equal("/login", w.Header().Get("Location"), path)
	}
}

func TestServer_InfoReportsProcess(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	postForm(router, "/register", registerForm("alice", "hunter2hunter2"))
	w := postForm(router, "/login", url.Values{"username": {"alice"}, "password": {"hunter2hunter2"}})
	cookie := sessionCookie(t, w)

	r := httptest.NewRequest(http.MethodGet, "/info", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)
	var info processInfo
	req.NoError(json.Unmarshal(w.Body.Bytes(), &info))
	req.NotZero(info.PID)
	req.NotEmpty(info.Platform)
	req.NotZero(info.CPUs)
}

func TestServer_LogoutDestroysSession(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	postForm(router, "/register", registerForm("alice", "hunter2hunter2"))
	w := postForm(router, "/login", url.Values{"username": {"alice"}, "password": {"hunter2hunter2"}})
	cookie := sessionCookie(t, w)

	// Logout says goodbye by name
	r := httptest.NewRequest(http.MethodGet, "/logout", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	req.Equal(http.StatusOK, w.Code)
	page, err := io.ReadAll(w.Body)
	req.NoError(err)
	req.Contains(string(page), "alice")

	// The old cookie no longer resolves
	r = httptest.NewRequest(http.MethodGet, "/logged", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)
	req.Equal(http.StatusUnauthorized, w.Code)
}

func TestServer_UnknownPathIs404(t *testing.T) {
	req := require.New(t)
	router := newTestServer(t).Router()

	r := httptest.NewRequest(http.MethodGet, "/no/such/route", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	req.Equal(http.StatusNotFound, w.Code)
}

func TestServer_RollingSessionReissuesCookie(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t)
	router := server.Router()

	postForm(router, "/register", registerForm("alice", "hunter2hunter2"))
	w := postForm(router, "/login", url.Values{"username": {"alice"}, "password": {"hunter2hunter2"}})
	cookie := sessionCookie(t, w)

	sessionID, err := server.signer.Parse(cookie.Value)
	req.NoError(err)
	before, err := server.sessions.Get(context.Background(), sessionID)
	req.NoError(err)

	time.Sleep(10 * time.Millisecond)

	r := httptest.NewRequest(http.MethodGet, "/logged", nil)
	r.AddCookie(cookie)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, r)

	// Every authenticated request pushes the expiry forward, both in
	// the store and in the re-issued cookie
	req.Equal(http.StatusOK, w.Code)
	after, err := server.sessions.Get(context.Background(), sessionID)
	req.NoError(err)
	req.True(after.ExpiresAt.After(before.ExpiresAt))

	refreshed := sessionCookie(t, w)
	req.NotEmpty(refreshed.Value)
	req.WithinDuration(after.ExpiresAt, refreshed.Expires, time.Second)
}
