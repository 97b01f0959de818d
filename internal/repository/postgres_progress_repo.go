package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/gymlog/internal/model"
)

// PostgresProgressRepo はPostgreSQLを使用した進捗リポジトリ。
type PostgresProgressRepo struct {
	db *sql.DB
}

// NewPostgresProgressRepo はPostgresProgressRepoを生成する。
func NewPostgresProgressRepo(db *sql.DB) *PostgresProgressRepo {
	return &PostgresProgressRepo{db: db}
}

// Create は進捗レコードを作成する。
func (r *PostgresProgressRepo) Create(ctx context.Context, progress *model.Progress) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO progress (id, user_id, exercise, weight, reps, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		progress.ID, progress.UserID, progress.Exercise,
		progress.Weight, progress.Reps, progress.Notes, progress.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}
	return nil
}

// ListRecentByUser は指定ユーザーの進捗を作成日時の降順でlimit件まで返す。
func (r *PostgresProgressRepo) ListRecentByUser(ctx context.Context, userID string, limit int) ([]*model.Progress, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, exercise, weight, reps, notes, created_at
		 FROM progress
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer rows.Close()

	var results []*model.Progress
	for rows.Next() {
		p := &model.Progress{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Exercise, &p.Weight, &p.Reps, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress rows: %w", err)
	}

	return results, nil
}

// ListRecentByUsers は指定ユーザー群の進捗をユーザー名付きで
// 作成日時の降順にマージし、limit件まで返す。
func (r *PostgresProgressRepo) ListRecentByUsers(ctx context.Context, userIDs []string, limit int) ([]model.ProgressWithUser, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.user_id, p.exercise, p.weight, p.reps, p.notes, p.created_at,
		        u.username
		 FROM progress p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.user_id = ANY($1)
		 ORDER BY p.created_at DESC
		 LIMIT $2`,
		pq.Array(userIDs), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list member progress: %w", err)
	}
	defer rows.Close()

	var results []model.ProgressWithUser
	for rows.Next() {
		var p model.ProgressWithUser
		if err := rows.Scan(&p.ID, &p.UserID, &p.Exercise, &p.Weight, &p.Reps, &p.Notes, &p.CreatedAt, &p.Username); err != nil {
			return nil, fmt.Errorf("failed to scan member progress row: %w", err)
		}
		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate member progress rows: %w", err)
	}

	return results, nil
}

// compile-time interface check
var _ ProgressRepository = (*PostgresProgressRepo)(nil)
