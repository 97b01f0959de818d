package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/gymlog/internal/middleware"
	"github.com/hitoshi/gymlog/internal/model"
	"github.com/hitoshi/gymlog/internal/view"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスのインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// AuthMetricsRecorder は認証イベントのメトリクス記録インターフェース。
type AuthMetricsRecorder interface {
	RecordLogin()
	RecordRegistration()
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	SessionMaxAge int
	CookieSecure  bool
	CookieDomain  string
}

// AuthHandler は登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	authService AuthServiceInterface
	metrics     AuthMetricsRecorder
	config      AuthHandlerConfig
	flashConfig middleware.FlashConfig
}

// NewAuthHandler はAuthHandlerを生成する。metricsはnil可。
func NewAuthHandler(
	authService AuthServiceInterface,
	metrics AuthMetricsRecorder,
	config AuthHandlerConfig,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     metrics,
		config:      config,
		flashConfig: middleware.FlashConfig{
			CookieSecure: config.CookieSecure,
			CookieDomain: config.CookieDomain,
		},
	}
}

// ShowRegister はGET /registerを処理し、登録フォームを描画する。
// ログイン済みユーザーはホームへリダイレクトする。
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	flash := middleware.PopFlash(w, r, h.flashConfig)
	view.Render(w, http.StatusOK, view.RegisterPage(flash))
}

// isAuthenticated はリクエストのCookieが有効なセッションを指すかを返す。
func (h *AuthHandler) isAuthenticated(r *http.Request) bool {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}
	user, err := h.authService.CurrentUser(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to resolve current user",
			slog.String("error", err.Error()),
		)
		return false
	}
	return user != nil
}

// Register はPOST /registerを処理する。
// 成功時はログインせず、フラッシュメッセージ付きでログイン画面へ誘導する。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	_, err := h.authService.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/register")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordRegistration()
	}

	middleware.SetFlash(w, h.flashConfig, "登録が完了しました。ログインしてください。")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin はGET /loginを処理し、ログインフォームを描画する。
// ログイン済みユーザーはホームへリダイレクトする。
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.isAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	flash := middleware.PopFlash(w, r, h.flashConfig)
	view.Render(w, http.StatusOK, view.LoginPage(flash))
}

// Login はPOST /loginを処理する。
// 認証成功時はセッションCookieを設定してホームへリダイレクトする。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	session, err := h.authService.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	if h.metrics != nil {
		h.metrics.RecordLogin()
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout はGET /logoutを処理する。
// サーバー側のセッションを破棄し、Cookieを無効化してログイン画面へ戻す。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to delete session",
				slog.String("error", err.Error()),
			)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.SetFlash(w, h.flashConfig, "ログアウトしました。")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
