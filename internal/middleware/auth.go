package middleware

import (
	"cashflow/internal/apperr"
	"cashflow/internal/model"
	"cashflow/internal/service"
	"cashflow/pkg/resp"
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// AccessTokenCookie - имя cookie с access токеном
const AccessTokenCookie = "accessToken"

type ctxKey struct{}

// Auth - пропускает запрос дальше только с валидным access токеном.
// Сначала проверяется cookie, затем заголовок Authorization: Bearer,
// так что устаревшая cookie не перекрывает валидный заголовок
func Auth(tokens service.TokenService, log *zap.Logger) func(http.Handler) http.Handler {
	log = log.Named("auth_gate")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := authenticate(tokens, r)
			if err != nil {
				log.Debug("request rejected",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				resp.WriteError(w, http.StatusUnauthorized, apperr.KindAuth.String(), apperr.Message(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// authenticate возвращает первую удачную проверку кандидатов
// либо ошибку первого из них
func authenticate(tokens service.TokenService, r *http.Request) (*model.Identity, error) {
	candidates := candidateTokens(r)
	if len(candidates) == 0 {
		return tokens.ValidateAccessToken("")
	}

	var firstErr error
	for _, token := range candidates {
		identity, err := tokens.ValidateAccessToken(token)
		if err == nil {
			return identity, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return nil, firstErr
}

func candidateTokens(r *http.Request) []string {
	var out []string

	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		out = append(out, c.Value)
	}

	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if ok && strings.EqualFold(scheme, "Bearer") {
		if token = strings.TrimSpace(token); token != "" {
			out = append(out, token)
		}
	}

	return out
}

func WithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(*model.Identity)
	return identity, ok && identity != nil
}

// UserIDFromContext - ID пользователя, установленный Auth
func UserIDFromContext(ctx context.Context) (int64, bool) {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return 0, false
	}
	return identity.UserID, true
}
