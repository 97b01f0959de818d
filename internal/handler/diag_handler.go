package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Ping はGET /pingを処理する。認証不要の死活確認用エンドポイント。
func Ping(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "pong")
}

// PingName はGET /ping/{name}を処理する。
// ルーティングとパスパラメータの疎通確認用。
func PingName(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "pong %s\n", chi.URLParam(r, "name"))
}
