// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/gymlog/internal/model"
)

// ErrDuplicateKey は一意制約違反を表す。
// 同時リクエストが同じユーザー名・グループ名を登録しようとした場合、
// DBの一意制約が最終的な判定者となり、敗者にはこのエラーが返る。
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// ユーザー名が重複している場合はErrDuplicateKeyを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する（大文字小文字を区別する完全一致）。
	// 見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// GroupRepository はグループとメンバーシップの永続化インターフェース。
type GroupRepository interface {
	// CreateWithOwnerMember はグループと作成者のメンバーシップを
	// 同一トランザクションで作成する。片方だけが残る中間状態は観測されない。
	// グループ名が重複している場合はErrDuplicateKeyを返す。
	CreateWithOwnerMember(ctx context.Context, group *model.Group) error

	// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Group, error)

	// FindByName は指定名のグループを取得する（完全一致）。見つからない場合はnilを返す。
	FindByName(ctx context.Context, name string) (*model.Group, error)

	// ListAll は全グループを作成日時の降順で返す。
	// viewerIDの所属状態とメンバー数を付加する。
	ListAll(ctx context.Context, viewerID string) ([]model.GroupSummary, error)

	// ListMembers は指定グループの現在のメンバーを返す。
	ListMembers(ctx context.Context, groupID string) ([]*model.User, error)

	// IsMember はユーザーが指定グループのメンバーかどうかを返す。
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// AddMember はユーザーをグループに追加する。
	AddMember(ctx context.Context, groupID, userID string) error

	// RemoveMember はユーザーをグループから除外する。
	RemoveMember(ctx context.Context, groupID, userID string) error
}

// ProgressRepository は進捗レコードの永続化インターフェース。
// レコードは追記専用で、更新・削除は提供しない。
type ProgressRepository interface {
	// Create は進捗レコードを作成する。
	Create(ctx context.Context, progress *model.Progress) error

	// ListRecentByUser は指定ユーザーの進捗を作成日時の降順でlimit件まで返す。
	ListRecentByUser(ctx context.Context, userID string, limit int) ([]*model.Progress, error)

	// ListRecentByUsers は指定ユーザー群の進捗をユーザー名付きで
	// 作成日時の降順にマージし、limit件まで返す。
	// userIDsが空の場合は空スライスを返す。
	ListRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]model.ProgressWithUser, error)
}
