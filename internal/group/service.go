// Package group はグループとメンバーシップ管理のドメインロジックを提供する。
package group

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/gymlog/internal/model"
	"github.com/hitoshi/gymlog/internal/repository"
)

// DetailProgressLimit はグループ詳細に表示するメンバー横断の実績の上限件数。
const DetailProgressLimit = 100

// MembershipOutcome はjoin/leave操作の結果を表す。
// いずれも成功であり、ユーザー向けメッセージの出し分けにのみ使用する。
type MembershipOutcome string

const (
	// OutcomeJoined は新たにメンバーになったことを表す。
	OutcomeJoined MembershipOutcome = "joined"
	// OutcomeAlreadyMember は既にメンバーだったことを表す。
	OutcomeAlreadyMember MembershipOutcome = "already_member"
	// OutcomeLeft はグループから抜けたことを表す。
	OutcomeLeft MembershipOutcome = "left"
	// OutcomeNotMember はメンバーでなかったことを表す。
	OutcomeNotMember MembershipOutcome = "not_member"
)

// Detail はグループ詳細画面のドメインオブジェクト。
// メンバー全員の最近の実績を新しい順にマージしたものを含む。
type Detail struct {
	Group    *model.Group
	Members  []*model.User
	Progress []model.ProgressWithUser
	IsMember bool
}

// Service はグループ管理のサービス層。
type Service struct {
	groupRepo    repository.GroupRepository
	progressRepo repository.ProgressRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(groupRepo repository.GroupRepository, progressRepo repository.ProgressRepository) *Service {
	return &Service{
		groupRepo:    groupRepo,
		progressRepo: progressRepo,
	}
}

// Create はグループを作成し、作成者を最初のメンバーとして追加する。
// 2つの書き込みはリポジトリ側で同一トランザクションとして実行され、
// 作成者がメンバーでないグループが観測されることはない。
// グループ名の重複はDBの一意制約を最終的な判定者とし、競合エラーとして返す。
func (s *Service) Create(ctx context.Context, ownerID, name string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, model.NewValidationError("グループ名は必須です。")
	}

	// 先行チェック。同時作成の競合はCreateWithOwnerMember時の一意制約で最終判定される。
	existing, err := s.groupRepo.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("グループ名の確認に失敗しました: %w", err)
	}
	if existing != nil {
		return nil, model.NewGroupNameTakenError(name)
	}

	g := &model.Group{
		ID:        uuid.New().String(),
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}

	if err := s.groupRepo.CreateWithOwnerMember(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, model.NewGroupNameTakenError(name)
		}
		return nil, fmt.Errorf("グループの作成に失敗しました: %w", err)
	}

	slog.Info("group created",
		slog.String("group_id", g.ID),
		slog.String("owner_id", ownerID),
	)

	return g, nil
}

// List は全グループを作成日時の降順で返す。
// ログイン済みであれば所属の有無に関わらず全件閲覧できる。
func (s *Service) List(ctx context.Context, viewerID string) ([]model.GroupSummary, error) {
	groups, err := s.groupRepo.ListAll(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("グループ一覧の取得に失敗しました: %w", err)
	}
	return groups, nil
}

// GetDetail はグループとメンバー、メンバー全員の最近の実績を返す。
// 実績はメンバーごとではなく全員分をマージして新しい順に最大
// DetailProgressLimit件まで含む。グループが存在しない場合はNotFoundエラー。
func (s *Service) GetDetail(ctx context.Context, groupID, viewerID string) (*Detail, error) {
	g, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return nil, model.NewGroupNotFoundError(groupID)
	}

	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("メンバー一覧の取得に失敗しました: %w", err)
	}

	memberIDs := make([]string, len(members))
	isMember := false
	for i, m := range members {
		memberIDs[i] = m.ID
		if m.ID == viewerID {
			isMember = true
		}
	}

	entries, err := s.progressRepo.ListRecentByUsers(ctx, memberIDs, DetailProgressLimit)
	if err != nil {
		return nil, fmt.Errorf("メンバーの実績取得に失敗しました: %w", err)
	}

	return &Detail{
		Group:    g,
		Members:  members,
		Progress: entries,
		IsMember: isMember,
	}, nil
}

// Join はユーザーをグループに参加させる。
// 既にメンバーの場合も成功とし、OutcomeAlreadyMemberで区別する。
func (s *Service) Join(ctx context.Context, userID, groupID string) (MembershipOutcome, error) {
	g, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return "", fmt.Errorf("グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return "", model.NewGroupNotFoundError(groupID)
	}

	member, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return "", fmt.Errorf("メンバーシップの確認に失敗しました: %w", err)
	}
	if member {
		return OutcomeAlreadyMember, nil
	}

	if err := s.groupRepo.AddMember(ctx, groupID, userID); err != nil {
		return "", fmt.Errorf("グループへの参加に失敗しました: %w", err)
	}

	slog.Info("user joined group",
		slog.String("user_id", userID),
		slog.String("group_id", groupID),
	)

	return OutcomeJoined, nil
}

// Leave はユーザーをグループから退出させる。
// メンバーでない場合も成功とし、OutcomeNotMemberで区別する。
// 所有者が退出してもowner_idは変更されない。
func (s *Service) Leave(ctx context.Context, userID, groupID string) (MembershipOutcome, error) {
	g, err := s.groupRepo.FindByID(ctx, groupID)
	if err != nil {
		return "", fmt.Errorf("グループの取得に失敗しました: %w", err)
	}
	if g == nil {
		return "", model.NewGroupNotFoundError(groupID)
	}

	member, err := s.groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return "", fmt.Errorf("メンバーシップの確認に失敗しました: %w", err)
	}
	if !member {
		return OutcomeNotMember, nil
	}

	if err := s.groupRepo.RemoveMember(ctx, groupID, userID); err != nil {
		return "", fmt.Errorf("グループからの退出に失敗しました: %w", err)
	}

	slog.Info("user left group",
		slog.String("user_id", userID),
		slog.String("group_id", groupID),
	)

	return OutcomeLeft, nil
}
