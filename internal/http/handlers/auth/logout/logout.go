// Package logout реализует HTTP-обработчик выхода пользователя.
//
// Сессия уничтожается целиком, cookie аннулируется, клиент
// перенаправляется на /login. Выход без активной сессии не является
// ошибкой: обработчик идемпотентен.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
)

// SessionDestroyer описывает интерфейс уничтожения сессии.
type SessionDestroyer interface {
	Destroy(ctx context.Context, token string) error
}

// Handler обрабатывает GET /logout.
type Handler struct {
	log        *slog.Logger
	sessions   SessionDestroyer
	cookieName string
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions SessionDestroyer, cookieName string) *Handler {
	return &Handler{
		log:        log,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

// ServeHTTP уничтожает сессию, если она есть, и перенаправляет на /login.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if cookie, err := r.Cookie(h.cookieName); err == nil {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			// Ошибка хранилища не мешает выходу: cookie все равно
			// аннулируется, сессия истечет по TTL.
			log.Error("failed to destroy session", sl.Err(err))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	http.Redirect(w, r, "/login", http.StatusFound)
}
