package httpmw

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cwrk-planet/creator-hub/pkg/httputil"
	"github.com/cwrk-planet/creator-hub/pkg/logger"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger кладёт логгер запроса в контекст и пишет итоговую строку.
// Уровень зависит от статуса: 5xx error, 4xx warn, остальное info.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID, _ := httputil.FromContext(r.Context())

		l := logger.L().With(
			slog.String("req_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		ctx := logger.WithContext(r.Context(), l)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		logger.FromContext(ctx).LogAttrs(ctx, level, "http_request",
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_ip", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()),
			slog.String("query", redactQuery(r.URL.RawQuery)),
		)
	})
}

const redacted = "REDACTED"

// redactQuery скрывает значения token/secret/password-параметров
// (/ws принимает access_token в query).
func redactQuery(raw string) string {
	if raw == "" {
		return ""
	}
	q, err := url.ParseQuery(raw)
	if err != nil {
		return redacted
	}
	for key, vals := range q {
		if !isSensitiveParam(key) {
			continue
		}
		for i := range vals {
			vals[i] = redacted
		}
	}

	return q.Encode()
}

func isSensitiveParam(key string) bool {
	k := strings.ToLower(key)
	for _, s := range []string{"token", "secret", "password"} {
		if strings.Contains(k, s) {
			return true
		}
	}

	return false
}
