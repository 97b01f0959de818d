package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/gymlog/internal/model"
)

// PostgresGroupRepo はPostgreSQLを使用したグループリポジトリ。
type PostgresGroupRepo struct {
	db *sql.DB
}

// NewPostgresGroupRepo はPostgresGroupRepoを生成する。
func NewPostgresGroupRepo(db *sql.DB) *PostgresGroupRepo {
	return &PostgresGroupRepo{db: db}
}

// CreateWithOwnerMember はグループと作成者のメンバーシップを同一トランザクションで作成する。
// グループ名の重複はErrDuplicateKeyとして返す。
func (r *PostgresGroupRepo) CreateWithOwnerMember(ctx context.Context, group *model.Group) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// グループを作成
	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, owner_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		group.ID, group.Name, group.OwnerID, group.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("group name %q: %w", group.Name, ErrDuplicateKey)
	}
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	// 作成者を最初のメンバーとして追加
	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (user_id, group_id) VALUES ($1, $2)`,
		group.OwnerID, group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindByID は指定IDのグループを取得する。見つからない場合はnilを返す。
func (r *PostgresGroupRepo) FindByID(ctx context.Context, id string) (*model.Group, error) {
	group := &model.Group{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM groups WHERE id = $1`,
		id,
	).Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group by ID: %w", err)
	}

	return group, nil
}

// FindByName は指定名のグループを取得する。見つからない場合はnilを返す。
func (r *PostgresGroupRepo) FindByName(ctx context.Context, name string) (*model.Group, error) {
	group := &model.Group{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, owner_id, created_at FROM groups WHERE name = $1`,
		name,
	).Scan(&group.ID, &group.Name, &group.OwnerID, &group.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find group by name: %w", err)
	}

	return group, nil
}

// ListAll は全グループを作成日時の降順で返す。
// viewerIDの所属状態とメンバー数を付加する。
func (r *PostgresGroupRepo) ListAll(ctx context.Context, viewerID string) ([]model.GroupSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.owner_id, g.created_at,
		        COUNT(gm.user_id) AS member_count,
		        BOOL_OR(gm.user_id = $1) AS is_member
		 FROM groups g
		 LEFT JOIN group_members gm ON gm.group_id = g.id
		 GROUP BY g.id
		 ORDER BY g.created_at DESC`,
		viewerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var results []model.GroupSummary
	for rows.Next() {
		var s model.GroupSummary
		var isMember sql.NullBool
		if err := rows.Scan(&s.ID, &s.Name, &s.OwnerID, &s.CreatedAt, &s.MemberCount, &isMember); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		// メンバーが1人もいないグループではBOOL_ORはNULLになる
		s.IsMember = isMember.Valid && isMember.Bool
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group rows: %w", err)
	}

	return results, nil
}

// ListMembers は指定グループの現在のメンバーを返す。
func (r *PostgresGroupRepo) ListMembers(ctx context.Context, groupID string) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.username, u.password_hash, u.created_at
		 FROM users u
		 JOIN group_members gm ON gm.user_id = u.id
		 WHERE gm.group_id = $1
		 ORDER BY u.username`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		members = append(members, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member rows: %w", err)
	}

	return members, nil
}

// IsMember はユーザーが指定グループのメンバーかどうかを返す。
func (r *PostgresGroupRepo) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		 )`,
		groupID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return exists, nil
}

// AddMember はユーザーをグループに追加する。
// 既にメンバーの場合は何もしない（冪等）。
func (r *PostgresGroupRepo) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (user_id, group_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		userID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember はユーザーをグループから除外する。
// メンバーでない場合は何もしない（冪等）。
func (r *PostgresGroupRepo) RemoveMember(ctx context.Context, groupID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`,
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// compile-time interface check
var _ GroupRepository = (*PostgresGroupRepo)(nil)
