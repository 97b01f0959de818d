package middleware

import (
	"net/http"
	"net/url"
)

// flashCookieName はワンショットメッセージを保持するCookieの名前。
// リダイレクト後の1回の描画でのみ表示され、読み取りと同時に消える。
const flashCookieName = "flash"

// FlashConfig はフラッシュメッセージCookieの設定。
type FlashConfig struct {
	CookieSecure bool
	CookieDomain string
}

// SetFlash はリダイレクト前にワンショットメッセージをCookieに設定する。
// メッセージはURLエンコードして格納する（日本語メッセージ対応）。
func SetFlash(w http.ResponseWriter, config FlashConfig, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   60,
		HttpOnly: true,
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash はフラッシュメッセージを読み取り、Cookieを削除して返す。
// メッセージがない場合は空文字列を返す。
func PopFlash(w http.ResponseWriter, r *http.Request, config FlashConfig) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}

	// 読み取りと同時にCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
