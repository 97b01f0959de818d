package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

// WriteHeader はステータスコードを記録してから委譲する。
func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

// Write はデータを書き込む。WriteHeaderが未呼び出しの場合は200を記録する。
func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}

// requestLogContext はミドルウェアチェーンの内側で解決した値を
// 外側のロギングミドルウェアへ伝えるための可変ホルダー。
// ロギングはセッション検証より外側に位置するため、
// コンテキストの値では内側の書き込みが外側に届かない。
type requestLogContext struct {
	userID string
}

// logContextKey はリクエストコンテキストにログホルダーを格納するためのキー。
var logContextKey = contextKey("log_context")

// setLogUserID はログホルダーが存在すればユーザーIDを書き込む。
func setLogUserID(ctx context.Context, userID string) {
	if lc, ok := ctx.Value(logContextKey).(*requestLogContext); ok {
		lc.userID = userID
	}
}

// NewLoggingMiddleware はリクエストのJSON構造化ログを出力するミドルウェアを返す。
// ログにはmethod、path、status、duration_ms、user_id（認証済みの場合）を含む。
// /ping配下はDockerヘルスチェックが定期的に叩くためログに残さない。
func NewLoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/ping" || strings.HasPrefix(r.URL.Path, "/ping/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			// 内側のミドルウェアがユーザーIDを書き戻せるようホルダーを仕込む
			lc := &requestLogContext{}
			r = r.WithContext(context.WithValue(r.Context(), logContextKey, lc))

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			durationMs := float64(duration.Nanoseconds()) / float64(time.Millisecond)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.statusCode),
				slog.Float64("duration_ms", durationMs),
			}

			// セッション検証を通過したリクエストはユーザーIDを追加
			userID := lc.userID
			if userID == "" {
				// テスト等でコンテキストに直接注入されたケース
				if id, err := UserIDFromContext(r.Context()); err == nil {
					userID = id
				}
			}
			if userID != "" {
				attrs = append(attrs, slog.String("user_id", userID))
			}

			// POST後のリダイレクトが多いアプリのため、遷移先も記録する
			if rec.statusCode >= 300 && rec.statusCode < 400 {
				if location := rec.Header().Get("Location"); location != "" {
					attrs = append(attrs, slog.String("location", location))
				}
			}

			// slogのログレベルをステータスコードに応じて変更
			level := slog.LevelInfo
			if rec.statusCode >= 500 {
				level = slog.LevelError
			} else if rec.statusCode >= 400 {
				level = slog.LevelWarn
			}

			// slog.Attr をany スライスに変換
			args := make([]any, len(attrs))
			for i, attr := range attrs {
				args[i] = attr
			}

			logger.Log(r.Context(), level, "http_request", args...)
		})
	}
}
