// Package model はドメインモデルを定義する。
package model

import "time"

// Progress は1回のトレーニング実績を表す追記専用のログレコード。
// 作成後の更新・削除は行わない。
type Progress struct {
	ID        string
	UserID    string
	Exercise  string
	Weight    *float64 // 未入力の場合はnil
	Reps      *int     // 未入力の場合はnil
	Notes     string
	CreatedAt time.Time
}

// ProgressWithUser は進捗レコードに記録者のユーザー名を結合したモデル。
// グループ詳細画面でメンバー横断の進捗を表示する際に使用する。
type ProgressWithUser struct {
	Progress
	Username string
}
