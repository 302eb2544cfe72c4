package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
)

// TokenValidator описывает интерфейс проверки API-токена.
type TokenValidator interface {
	ValidateAPIToken(ctx context.Context, token string) (string, error)
}

// APIAuth возвращает middleware для REST-эндпоинтов. Если запрос несет
// заголовок Authorization с Bearer-токеном, проверяется токен; иначе
// выполняется запасная проверка сессионной cookie. В отличие от
// браузерных страниц, неуспех дает 401 JSON, а не редирект.
//
// Эндпоинт регистрации пользователя монтируется вне защищенной группы
// и этим middleware не проверяется.
func APIAuth(tokens TokenValidator, store SessionStore, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.APIAuth"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
				username, err := tokens.ValidateAPIToken(r.Context(), tokenStr)
				if err != nil {
					log.Error("invalid or expired token", sl.Err(err))
					w.WriteHeader(http.StatusUnauthorized)
					render.JSON(w, r, response.Error("invalid or expired token"))
					return
				}
				ctx := context.WithValue(r.Context(), User, username)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil {
				log.Error("missing authorization token and session cookie")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			session, found, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Error("session store failure", sl.Err(err))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if !found || !session.Authenticated {
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("authentication required"))
				return
			}
			if err := store.Touch(r.Context(), cookie.Value); err != nil {
				log.Error("failed to touch session", sl.Err(err))
			}

			ctx := context.WithValue(r.Context(), User, session.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
