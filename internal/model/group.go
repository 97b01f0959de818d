// Package model はドメインモデルを定義する。
package model

import "time"

// Group はトレーニンググループを表す。
// OwnerIDは作成者を記録する情報であり、メンバーシップや特権を意味しない。
// 作成フローが作成者を最初のメンバーとして明示的に追加する。
type Group struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
}

// GroupSummary はグループ一覧表示用にメンバー数と
// 閲覧ユーザーの所属状態を付加したモデル。
type GroupSummary struct {
	Group
	MemberCount int
	IsMember    bool
}
