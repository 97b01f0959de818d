package view

import (
	. "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"
)

// LoginPage はログインフォームを描画する。
func LoginPage(flash string) Node {
	return layout("ログイン", flash, false,
		H2(Text("ログイン")),
		Form(
			Method("post"),
			Action("/login"),
			Label(For("username"), Text("ユーザー名")),
			Input(Type("text"), ID("username"), Name("username"), AutoComplete("username")),
			Label(For("password"), Text("パスワード")),
			Input(Type("password"), ID("password"), Name("password"), AutoComplete("current-password")),
			Button(Type("submit"), Text("ログイン")),
		),
		P(
			Text("アカウントをお持ちでない場合は"),
			A(Href("/register"), Text("登録")),
			Text("してください。"),
		),
	)
}

// RegisterPage は登録フォームを描画する。
func RegisterPage(flash string) Node {
	return layout("登録", flash, false,
		H2(Text("アカウント登録")),
		Form(
			Method("post"),
			Action("/register"),
			Label(For("username"), Text("ユーザー名")),
			Input(Type("text"), ID("username"), Name("username"), AutoComplete("username")),
			Label(For("password"), Text("パスワード")),
			Input(Type("password"), ID("password"), Name("password"), AutoComplete("new-password")),
			Button(Type("submit"), Text("登録")),
		),
		P(
			Text("登録済みの場合は"),
			A(Href("/login"), Text("ログイン")),
			Text("してください。"),
		),
	)
}
