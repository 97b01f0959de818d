package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/gymlog/internal/middleware"
	"github.com/hitoshi/gymlog/internal/model"
	"github.com/hitoshi/gymlog/internal/progress"
	"github.com/hitoshi/gymlog/internal/view"
)

// ProgressServiceInterface は実績ハンドラーが必要とするサービスのインターフェース。
type ProgressServiceInterface interface {
	Add(ctx context.Context, userID string, input progress.AddInput) (*model.Progress, error)
	ListRecent(ctx context.Context, userID string, limit int) ([]*model.Progress, error)
}

// UserFinder はユーザー表示名の解決に必要なインターフェース。
// repository.UserRepositoryの部分集合として定義する。
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ProgressMetricsRecorder は実績イベントのメトリクス記録インターフェース。
type ProgressMetricsRecorder interface {
	RecordProgressEntry()
}

// ProgressHandler はホーム画面と実績記録のHTTPハンドラー。
type ProgressHandler struct {
	progressService ProgressServiceInterface
	userFinder      UserFinder
	metrics         ProgressMetricsRecorder
	flashConfig     middleware.FlashConfig
}

// NewProgressHandler はProgressHandlerを生成する。metricsはnil可。
func NewProgressHandler(
	progressService ProgressServiceInterface,
	userFinder UserFinder,
	metrics ProgressMetricsRecorder,
	flashConfig middleware.FlashConfig,
) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		userFinder:      userFinder,
		metrics:         metrics,
		flashConfig:     flashConfig,
	}
}

// Home はGET /を処理し、自分の最近の実績を新しい順に表示する。
func (h *ProgressHandler) Home(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, r, h.flashConfig, model.NewUnauthorizedError(), "/")
		return
	}

	user, err := h.userFinder.FindByID(r.Context(), userID)
	if err != nil {
		slog.Error("failed to find user",
			slog.String("error", err.Error()),
			slog.String("user_id", userID),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// セッションは有効だがユーザー行が存在しない。再ログインを促す
		handleServiceError(w, r, h.flashConfig, model.NewUserNotFoundError(), "/")
		return
	}

	entries, err := h.progressService.ListRecent(r.Context(), userID, progress.DefaultRecentLimit)
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/")
		return
	}

	flash := middleware.PopFlash(w, r, h.flashConfig)
	view.Render(w, http.StatusOK, view.HomePage(flash, user.Username, entries))
}

// ShowProgressForm はGET /progress/newを処理し、実績記録フォームを描画する。
func (h *ProgressHandler) ShowProgressForm(w http.ResponseWriter, r *http.Request) {
	flash := middleware.PopFlash(w, r, h.flashConfig)
	view.Render(w, http.StatusOK, view.ProgressFormPage(flash))
}

// CreateProgress はPOST /progress/newを処理する。
// 検証エラーはフラッシュメッセージ付きでフォームへ戻し、
// 成功時はホームへリダイレクトする。
func (h *ProgressHandler) CreateProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, r, h.flashConfig, model.NewUnauthorizedError(), "/")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	input := progress.AddInput{
		Exercise: r.PostFormValue("exercise"),
		Weight:   r.PostFormValue("weight"),
		Reps:     r.PostFormValue("reps"),
		Notes:    r.PostFormValue("notes"),
	}

	if _, err := h.progressService.Add(r.Context(), userID, input); err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/progress/new")
		return
	}

	if h.metrics != nil {
		h.metrics.RecordProgressEntry()
	}

	middleware.SetFlash(w, h.flashConfig, "実績を記録しました。")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
