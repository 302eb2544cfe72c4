package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

// SessionStore описывает интерфейс хранилища сессий, достаточный
// для проверки и продления сессии.
type SessionStore interface {
	Get(ctx context.Context, token string) (*models.Session, bool, error)
	Touch(ctx context.Context, token string) error
}

// SessionAuth возвращает middleware для браузерных страниц: проверяет
// сессионную cookie и при любом неуспехе перенаправляет на /login,
// сохраняя исходный URL в параметре next. Ошибка хранилища сессий
// неотличима для клиента от отсутствия сессии.
//
// Страницы /login и /signup этим middleware не оборачиваются,
// поэтому цикл редиректов невозможен.
func SessionAuth(store SessionStore, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionAuth"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			redirectToLogin := func() {
				target := "/login?next=" + url.QueryEscape(r.URL.RequestURI())
				http.Redirect(w, r, target, http.StatusFound)
			}

			cookie, err := r.Cookie(cookieName)
			if err != nil {
				redirectToLogin()
				return
			}

			session, found, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				log.Error("session store failure", sl.Err(err))
				redirectToLogin()
				return
			}
			if !found || !session.Authenticated {
				redirectToLogin()
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
