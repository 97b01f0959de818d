// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/gymlog/internal/middleware"
	"github.com/hitoshi/gymlog/internal/model"
	"github.com/hitoshi/gymlog/internal/view"
)

// handleServiceError はサービス層のエラーをHTMLフローに変換する。
// validation/conflictはフラッシュメッセージ付きで元のフォームへ、
// authはログイン画面へリダイレクトし、not_foundは404ページを描画する。
// それ以外は詳細をログにのみ記録し、一般的な500レスポンスを返す。
func handleServiceError(w http.ResponseWriter, r *http.Request, flashConfig middleware.FlashConfig, err error, backTo string) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Category {
		case "validation", "conflict":
			middleware.SetFlash(w, flashConfig, apiErr.Message)
			http.Redirect(w, r, backTo, http.StatusSeeOther)
			return
		case "auth":
			middleware.SetFlash(w, flashConfig, apiErr.Message)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		case "not_found":
			view.Render(w, http.StatusNotFound, view.NotFoundPage(apiErr.Message))
			return
		}
	}

	slog.Error("unexpected service error",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
