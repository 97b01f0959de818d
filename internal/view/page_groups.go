package view

import (
	"github.com/hitoshi/gymlog/internal/group"
	"github.com/hitoshi/gymlog/internal/model"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// GroupsPage はグループ一覧と作成フォームを描画する。
func GroupsPage(flash string, groups []model.GroupSummary) Node {
	content := []Node{
		H2(Text("グループ")),
		Form(
			Method("post"),
			Action("/groups"),
			Label(For("name"), Text("グループ名")),
			Input(Type("text"), ID("name"), Name("name")),
			Button(Type("submit"), Text("作成して参加")),
		),
	}

	if len(groups) == 0 {
		content = append(content, P(Text("まだグループがありません。")))
	} else {
		rows := make([]Node, 0, len(groups))
		for _, g := range groups {
			status := "-"
			if g.IsMember {
				status = "参加中"
			}
			rows = append(rows,
				Tr(
					Td(A(Href("/groups/"+g.ID), Text(g.Name))),
					Td(Textf("%d人", g.MemberCount)),
					Td(Text(status)),
					Td(Text(formatTime(g.CreatedAt))),
				),
			)
		}
		content = append(content, Table(
			THead(Tr(
				Th(Text("グループ名")),
				Th(Text("メンバー")),
				Th(Text("状態")),
				Th(Text("作成日時")),
			)),
			TBody(rows...),
		))
	}

	return layout("グループ", flash, true, content...)
}

// GroupDetailPage はグループ詳細とメンバー横断の実績を描画する。
func GroupDetailPage(flash string, detail *group.Detail) Node {
	memberItems := make([]Node, 0, len(detail.Members))
	for _, m := range detail.Members {
		memberItems = append(memberItems, Li(Text(m.Username)))
	}

	var membershipForm Node
	if detail.IsMember {
		membershipForm = Form(
			Method("post"),
			Action("/groups/"+detail.Group.ID+"/leave"),
			Button(Type("submit"), Text("グループから抜ける")),
		)
	} else {
		membershipForm = Form(
			Method("post"),
			Action("/groups/"+detail.Group.ID+"/join"),
			Button(Type("submit"), Text("グループに参加する")),
		)
	}

	content := []Node{
		H2(Text(detail.Group.Name)),
		membershipForm,
		H3(Textf("メンバー（%d人）", len(detail.Members))),
		Ul(memberItems...),
		H3(Text("メンバーの最近の実績")),
	}

	if len(detail.Progress) == 0 {
		content = append(content, P(Text("まだ実績がありません。")))
	} else {
		rows := make([]Node, 0, len(detail.Progress))
		for _, e := range detail.Progress {
			rows = append(rows,
				Tr(
					Td(Text(formatTime(e.CreatedAt))),
					Td(Text(e.Username)),
					Td(Text(e.Exercise)),
					Td(Text(formatWeight(e.Weight))),
					Td(Text(formatReps(e.Reps))),
					Td(Text(e.Notes)),
				),
			)
		}
		content = append(content, Table(
			THead(Tr(
				Th(Text("日時")),
				Th(Text("ユーザー")),
				Th(Text("種目")),
				Th(Text("重量")),
				Th(Text("回数")),
				Th(Text("メモ")),
			)),
			TBody(rows...),
		))
	}

	return layout(detail.Group.Name, flash, true, content...)
}

// NotFoundPage は404ページを描画する。
func NotFoundPage(message string) Node {
	return layout("見つかりません", "", true,
		H2(Text("ページが見つかりません")),
		P(Text(message)),
		P(A(Href("/"), Text("ホームに戻る"))),
	)
}
