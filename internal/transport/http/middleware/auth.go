package httpmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cwrk-planet/creator-hub/internal/security"
	"github.com/cwrk-planet/creator-hub/pkg/httputil"
	"github.com/cwrk-planet/creator-hub/pkg/logger"
)

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

type Verifier interface {
	Verify(token string) (*security.Identity, error)
}

// BearerToken returns the credential from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)

	return token, token != ""
}

// AuthMiddleware отклоняет запрос с 401 до вызова хендлера, если токен
// отсутствует или не проходит проверку. Причина отказа наружу не отдаётся.
func AuthMiddleware(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				httputil.Error(w, http.StatusUnauthorized, "missing bearer token", nil)
				return
			}

			id, err := v.Verify(token)
			if err != nil {
				logger.FromContext(r.Context()).Debug("auth.verify failed", slog.Any("err", err))
				httputil.Error(w, http.StatusUnauthorized, "invalid or expired token", nil)
				return
			}

			ctx := WithIdentity(r.Context(), *id)
			ctx = logger.WithContext(ctx, logger.FromContext(ctx).With(slog.String("user_id", id.ID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithIdentity(ctx context.Context, id security.Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromCtx(ctx context.Context) (security.Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(security.Identity)
	return id, ok
}
