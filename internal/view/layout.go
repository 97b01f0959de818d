// Package view はgomponentsによるサーバーサイドHTMLレンダリングを提供する。
// ユーザー入力は必ずTextノードを通してエスケープされる。
package view

import (
	"fmt"
	"net/http"
	"time"

	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// Render はページをHTMLとして書き出す。
func Render(w http.ResponseWriter, statusCode int, page Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = page.Render(w)
}

// layout は全ページ共通のシェル。ナビゲーションとフラッシュメッセージを含む。
func layout(title string, flash string, authenticated bool, content ...Node) Node {
	var nav Node
	if authenticated {
		nav = Nav(
			A(Href("/"), Text("ホーム")),
			A(Href("/progress/new"), Text("実績を記録")),
			A(Href("/groups"), Text("グループ")),
			A(Href("/logout"), Text("ログアウト")),
		)
	} else {
		nav = Nav(
			A(Href("/login"), Text("ログイン")),
			A(Href("/register"), Text("登録")),
		)
	}

	body := []Node{
		Header(
			H1(A(Href("/"), Text("gymlog"))),
			nav,
		),
	}
	if flash != "" {
		body = append(body, P(Class("flash"), Text(flash)))
	}
	body = append(body, Main(content...))

	return HTML(
		Lang("ja"),
		Head(
			Meta(Charset("utf-8")),
			Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
			TitleEl(Text(fmt.Sprintf("%s | gymlog", title))),
		),
		Body(Group(body)),
	)
}

// formatTime は表示用の日時フォーマット。
func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// formatWeight は未記録の重量を"-"として表示する。
func formatWeight(w *float64) string {
	if w == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *w)
}

// formatReps は未記録の回数を"-"として表示する。
func formatReps(r *int) string {
	if r == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *r)
}
