package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gymlog/internal/middleware"
)

// RouterDeps はルーター構築に必要な依存。
type RouterDeps struct {
	AuthHandler     *AuthHandler
	ProgressHandler *ProgressHandler
	GroupHandler    *GroupHandler
	SessionFinder   middleware.SessionFinder
	Logger          *slog.Logger
	MetricsRecorder middleware.HTTPMetricsRecorder // nil可
}

// NewRouter はアプリケーションのルーターを構築する。
// 認証不要のルートと、セッションミドルウェア配下の認証必須ルートに分かれる。
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.MetricsRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.MetricsRecorder))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	// 認証不要
	r.Get("/ping", Ping)
	r.Get("/ping/{name}", PingName)
	r.Get("/register", deps.AuthHandler.ShowRegister)
	r.Post("/register", deps.AuthHandler.Register)
	r.Get("/login", deps.AuthHandler.ShowLogin)
	r.Post("/login", deps.AuthHandler.Login)

	// 認証必須
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))

		r.Get("/", deps.ProgressHandler.Home)
		r.Get("/logout", deps.AuthHandler.Logout)
		r.Get("/progress/new", deps.ProgressHandler.ShowProgressForm)
		r.Post("/progress/new", deps.ProgressHandler.CreateProgress)
		r.Get("/groups", deps.GroupHandler.ListGroups)
		r.Post("/groups", deps.GroupHandler.CreateGroup)
		r.Get("/groups/{id}", deps.GroupHandler.GroupDetail)
		r.Post("/groups/{id}/join", deps.GroupHandler.JoinGroup)
		r.Post("/groups/{id}/leave", deps.GroupHandler.LeaveGroup)
	})

	return r
}
