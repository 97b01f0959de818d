package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hitoshi/gymlog/internal/middleware"
	"github.com/hitoshi/gymlog/internal/model"
)

type mockAuthService struct {
	registerFunc    func(ctx context.Context, username, password string) (*model.User, error)
	loginFunc       func(ctx context.Context, username, password string) (*model.Session, error)
	logoutFunc      func(ctx context.Context, sessionID string) error
	currentUserFunc func(ctx context.Context, sessionID string) (*model.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, username, password string) (*model.User, error) {
	return m.registerFunc(ctx, username, password)
}

func (m *mockAuthService) Login(ctx context.Context, username, password string) (*model.Session, error) {
	return m.loginFunc(ctx, username, password)
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	return m.logoutFunc(ctx, sessionID)
}

func (m *mockAuthService) CurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if m.currentUserFunc == nil {
		return nil, nil
	}
	return m.currentUserFunc(ctx, sessionID)
}

type recordingAuthMetrics struct {
	logins        int
	registrations int
}

func (m *recordingAuthMetrics) RecordLogin()        { m.logins++ }
func (m *recordingAuthMetrics) RecordRegistration() { m.registrations++ }

// flashMessage はレスポンスに設定されたフラッシュCookieの中身を返す。
func flashMessage(t *testing.T, result *http.Response) string {
	t.Helper()
	for _, c := range result.Cookies() {
		if c.Name == "flash" && c.MaxAge > 0 {
			message, err := url.QueryUnescape(c.Value)
			if err != nil {
				t.Fatalf("failed to unescape flash cookie: %v", err)
			}
			return message
		}
	}
	return ""
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	service := &mockAuthService{
		registerFunc: func(ctx context.Context, username, password string) (*model.User, error) {
			if username != "alice" || password != "secret" {
				t.Errorf("unexpected credentials: %s / %s", username, password)
			}
			return &model.User{ID: "user-1", Username: username}, nil
		},
	}
	metrics := &recordingAuthMetrics{}
	h := NewAuthHandler(service, metrics, AuthHandlerConfig{SessionMaxAge: 3600})

	req := postForm("/register", url.Values{"username": {"alice"}, "password": {"secret"}})
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/login" {
		t.Errorf("expected redirect to /login, got %s", location)
	}
	if metrics.registrations != 1 {
		t.Errorf("expected 1 registration recorded, got %d", metrics.registrations)
	}
	if message := flashMessage(t, w.Result()); message == "" {
		t.Error("expected flash message to be set")
	}
}

func TestAuthHandler_Register_UsernameTaken(t *testing.T) {
	service := &mockAuthService{
		registerFunc: func(ctx context.Context, username, password string) (*model.User, error) {
			return nil, model.NewUsernameTakenError(username)
		},
	}
	metrics := &recordingAuthMetrics{}
	h := NewAuthHandler(service, metrics, AuthHandlerConfig{})

	req := postForm("/register", url.Values{"username": {"alice"}, "password": {"secret"}})
	w := httptest.NewRecorder()
	h.Register(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/register" {
		t.Errorf("expected redirect back to /register, got %s", location)
	}
	if metrics.registrations != 0 {
		t.Errorf("expected no registration recorded, got %d", metrics.registrations)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	service := &mockAuthService{
		loginFunc: func(ctx context.Context, username, password string) (*model.Session, error) {
			return &model.Session{ID: "session-1", UserID: "user-1"}, nil
		},
	}
	metrics := &recordingAuthMetrics{}
	h := NewAuthHandler(service, metrics, AuthHandlerConfig{SessionMaxAge: 3600})

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"secret"}})
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/" {
		t.Errorf("expected redirect to /, got %s", location)
	}
	if metrics.logins != 1 {
		t.Errorf("expected 1 login recorded, got %d", metrics.logins)
	}

	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected session cookie to be set")
	}
	if sessionCookie.Value != "session-1" {
		t.Errorf("expected session cookie value session-1, got %s", sessionCookie.Value)
	}
	if !sessionCookie.HttpOnly {
		t.Error("expected session cookie to be HttpOnly")
	}
	if sessionCookie.MaxAge != 3600 {
		t.Errorf("expected session cookie max age 3600, got %d", sessionCookie.MaxAge)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	service := &mockAuthService{
		loginFunc: func(ctx context.Context, username, password string) (*model.Session, error) {
			return nil, model.NewInvalidCredentialsError()
		},
	}
	h := NewAuthHandler(service, nil, AuthHandlerConfig{})

	req := postForm("/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
	w := httptest.NewRecorder()
	h.Login(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/login" {
		t.Errorf("expected redirect back to /login, got %s", location)
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			t.Error("expected no session cookie on failed login")
		}
	}
}

func TestAuthHandler_Logout_DeletesSessionAndClearsCookie(t *testing.T) {
	deletedID := ""
	service := &mockAuthService{
		logoutFunc: func(ctx context.Context, sessionID string) error {
			deletedID = sessionID
			return nil
		},
	}
	h := NewAuthHandler(service, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-1"})
	w := httptest.NewRecorder()
	h.Logout(w, req)

	if deletedID != "session-1" {
		t.Errorf("expected session-1 to be deleted, got %q", deletedID)
	}
	if location := w.Header().Get("Location"); location != "/login" {
		t.Errorf("expected redirect to /login, got %s", location)
	}

	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected session cookie to be cleared")
	}
}

func TestAuthHandler_ShowLogin_AuthenticatedRedirectsHome(t *testing.T) {
	service := &mockAuthService{
		currentUserFunc: func(ctx context.Context, sessionID string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: "alice"}, nil
		},
	}
	h := NewAuthHandler(service, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "session-1"})
	w := httptest.NewRecorder()
	h.ShowLogin(w, req)

	if w.Code != http.StatusSeeOther {
		t.Errorf("expected status 303, got %d", w.Code)
	}
	if location := w.Header().Get("Location"); location != "/" {
		t.Errorf("expected redirect to /, got %s", location)
	}
}

func TestAuthHandler_ShowLogin_ExpiredSessionShowsForm(t *testing.T) {
	service := &mockAuthService{
		currentUserFunc: func(ctx context.Context, sessionID string) (*model.User, error) {
			return nil, nil
		},
	}
	h := NewAuthHandler(service, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "stale"})
	w := httptest.NewRecorder()
	h.ShowLogin(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestAuthHandler_Logout_WithoutCookie(t *testing.T) {
	service := &mockAuthService{
		logoutFunc: func(ctx context.Context, sessionID string) error {
			t.Error("Logout should not be called without a session cookie")
			return nil
		},
	}
	h := NewAuthHandler(service, nil, AuthHandlerConfig{})

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	w := httptest.NewRecorder()
	h.Logout(w, req)

	if location := w.Header().Get("Location"); location != "/login" {
		t.Errorf("expected redirect to /login, got %s", location)
	}
}
