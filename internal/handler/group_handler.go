package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/gymlog/internal/group"
	"github.com/hitoshi/gymlog/internal/middleware"
	"github.com/hitoshi/gymlog/internal/model"
	"github.com/hitoshi/gymlog/internal/view"
)

// GroupServiceInterface はグループハンドラーが必要とするサービスのインターフェース。
type GroupServiceInterface interface {
	Create(ctx context.Context, ownerID, name string) (*model.Group, error)
	List(ctx context.Context, viewerID string) ([]model.GroupSummary, error)
	GetDetail(ctx context.Context, groupID, viewerID string) (*group.Detail, error)
	Join(ctx context.Context, userID, groupID string) (group.MembershipOutcome, error)
	Leave(ctx context.Context, userID, groupID string) (group.MembershipOutcome, error)
}

// GroupMetricsRecorder はグループイベントのメトリクス記録インターフェース。
type GroupMetricsRecorder interface {
	RecordGroupJoin()
}

// GroupHandler はグループ一覧・作成・詳細・参加・退出のHTTPハンドラー。
type GroupHandler struct {
	groupService GroupServiceInterface
	metrics      GroupMetricsRecorder
	flashConfig  middleware.FlashConfig
}

// NewGroupHandler はGroupHandlerを生成する。metricsはnil可。
func NewGroupHandler(
	groupService GroupServiceInterface,
	metrics GroupMetricsRecorder,
	flashConfig middleware.FlashConfig,
) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		metrics:      metrics,
		flashConfig:  flashConfig,
	}
}

// ListGroups はGET /groupsを処理し、全グループの一覧を描画する。
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, r, h.flashConfig, model.NewUnauthorizedError(), "/")
		return
	}

	groups, err := h.groupService.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/groups")
		return
	}

	flash := middleware.PopFlash(w, r, h.flashConfig)
	view.Render(w, http.StatusOK, view.GroupsPage(flash, groups))
}

// CreateGroup はPOST /groupsを処理する。
// 作成者は作成と同時にメンバーになり、作成したグループの詳細へ遷移する。
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, r, h.flashConfig, model.NewUnauthorizedError(), "/")
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	g, err := h.groupService.Create(r.Context(), userID, r.PostFormValue("name"))
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/groups")
		return
	}

	middleware.SetFlash(w, h.flashConfig, "グループを作成しました。")
	http.Redirect(w, r, "/groups/"+g.ID, http.StatusSeeOther)
}

// GroupDetail はGET /groups/{id}を処理し、
// メンバー一覧とメンバー全員の最近の実績を描画する。
func (h *GroupHandler) GroupDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, r, h.flashConfig, model.NewUnauthorizedError(), "/")
		return
	}

	detail, err := h.groupService.GetDetail(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/groups")
		return
	}

	flash := middleware.PopFlash(w, r, h.flashConfig)
	view.Render(w, http.StatusOK, view.GroupDetailPage(flash, detail))
}

// JoinGroup はPOST /groups/{id}/joinを処理する。
// 既にメンバーの場合も成功扱いとし、メッセージのみ変えて詳細へ戻す。
func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, r, h.flashConfig, model.NewUnauthorizedError(), "/")
		return
	}

	groupID := chi.URLParam(r, "id")
	outcome, err := h.groupService.Join(r.Context(), userID, groupID)
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/groups")
		return
	}

	if outcome == group.OutcomeJoined && h.metrics != nil {
		h.metrics.RecordGroupJoin()
	}

	message := "グループに参加しました。"
	if outcome == group.OutcomeAlreadyMember {
		message = "既にこのグループのメンバーです。"
	}
	middleware.SetFlash(w, h.flashConfig, message)
	http.Redirect(w, r, "/groups/"+groupID, http.StatusSeeOther)
}

// LeaveGroup はPOST /groups/{id}/leaveを処理する。
// メンバーでない場合も成功扱いとし、メッセージのみ変えて一覧へ戻す。
func (h *GroupHandler) LeaveGroup(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		handleServiceError(w, r, h.flashConfig, model.NewUnauthorizedError(), "/")
		return
	}

	groupID := chi.URLParam(r, "id")
	outcome, err := h.groupService.Leave(r.Context(), userID, groupID)
	if err != nil {
		handleServiceError(w, r, h.flashConfig, err, "/groups")
		return
	}

	message := "グループから退出しました。"
	if outcome == group.OutcomeNotMember {
		message = "このグループのメンバーではありません。"
	}
	middleware.SetFlash(w, h.flashConfig, message)
	http.Redirect(w, r, "/groups", http.StatusSeeOther)
}
