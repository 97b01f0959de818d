package view

import (
	"github.com/hitoshi/gymlog/internal/model"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// HomePage は自分の最近の実績一覧を描画する。
func HomePage(flash string, username string, entries []*model.Progress) Node {
	content := []Node{
		H2(Textf("%s さんの最近の実績", username)),
		P(A(Href("/progress/new"), Text("実績を記録する"))),
	}

	if len(entries) == 0 {
		content = append(content, P(Text("まだ実績がありません。最初の実績を記録しましょう。")))
	} else {
		content = append(content, progressTable(entries))
	}

	return layout("ホーム", flash, true, content...)
}

// progressTable は自分の実績テーブルを描画する。
func progressTable(entries []*model.Progress) Node {
	rows := make([]Node, 0, len(entries))
	for _, e := range entries {
		rows = append(rows,
			Tr(
				Td(Text(formatTime(e.CreatedAt))),
				Td(Text(e.Exercise)),
				Td(Text(formatWeight(e.Weight))),
				Td(Text(formatReps(e.Reps))),
				Td(Text(e.Notes)),
			),
		)
	}

	return Table(
		THead(Tr(
			Th(Text("日時")),
			Th(Text("種目")),
			Th(Text("重量")),
			Th(Text("回数")),
			Th(Text("メモ")),
		)),
		TBody(rows...),
	)
}

// ProgressFormPage は実績記録フォームを描画する。
func ProgressFormPage(flash string) Node {
	return layout("実績を記録", flash, true,
		H2(Text("実績を記録")),
		Form(
			Method("post"),
			Action("/progress/new"),
			Label(For("exercise"), Text("種目（必須）")),
			Input(Type("text"), ID("exercise"), Name("exercise")),
			Label(For("weight"), Text("重量（任意）")),
			Input(Type("text"), ID("weight"), Name("weight"), Placeholder("例: 102.5")),
			Label(For("reps"), Text("回数（任意）")),
			Input(Type("text"), ID("reps"), Name("reps"), Placeholder("例: 5")),
			Label(For("notes"), Text("メモ（任意）")),
			Textarea(ID("notes"), Name("notes")),
			Button(Type("submit"), Text("記録する")),
		),
	)
}
