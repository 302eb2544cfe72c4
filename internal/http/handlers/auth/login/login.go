// Package login реализует HTTP-обработчик входа пользователя.
//
// Обработчик принимает данные формы входа, делегирует проверку учетных
// данных сервису аутентификации и при успехе создает сессию, устанавливая
// cookie. Отложенный адрес next проверяется по таблице маршрутов,
// построенной при старте: переход возможен только на зарегистрированную
// страницу, иначе клиент получает страницу 404.
//
// Любая неудача аутентификации отрисовывает форму входа с одним и тем же
// общим сообщением, без уточнения причины.
package login

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/pages"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, username, password string) (*models.User, error)
}

// SessionCreator описывает интерфейс создания сессии.
type SessionCreator interface {
	Create(ctx context.Context, username string) (string, error)
}

// RouteMatcher сообщает, зарегистрирована ли страница в таблице маршрутов.
type RouteMatcher func(path string) bool

// Handler обрабатывает POST /login.
type Handler struct {
	log        *slog.Logger
	auth       Service
	sessions   SessionCreator
	cookieName string
	matcher    RouteMatcher
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, sessions SessionCreator, cookieName string, matcher RouteMatcher) *Handler {
	return &Handler{
		log:        log,
		auth:       auth,
		sessions:   sessions,
		cookieName: cookieName,
		matcher:    matcher,
	}
}

// ServeHTTP обрабатывает отправку формы входа.
//
// Выполняет:
// - Разбор полей формы username, password, next.
// - Проверку учетных данных через сервис аутентификации.
// - Создание сессии и установку cookie при успехе.
// - Переход на next, если такой маршрут зарегистрирован, иначе 404.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse login form", sl.Err(err))
		pages.RenderLogin(w, "", "invalid username or password")
		return
	}
	username := r.PostFormValue("username")
	pass := r.PostFormValue("password")
	next := r.PostFormValue("next")

	if username == "" {
		pages.RenderLogin(w, next, "invalid username or password")
		return
	}

	if _, err := h.auth.Login(r.Context(), username, pass); err != nil {
		// Общее сообщение: неизвестный пользователь и неверный пароль
		// неразличимы для клиента.
		pages.RenderLogin(w, next, "invalid username or password")
		return
	}

	token, err := h.sessions.Create(r.Context(), username)
	if err != nil {
		log.Error("failed to create session", sl.Err(err))
		pages.RenderLogin(w, next, "invalid username or password")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.resolveNext(next), http.StatusFound)
}

// resolveNext возвращает адрес перехода после входа: сам next, если
// страница зарегистрирована, / при пустом next и /404 в остальных случаях.
func (h *Handler) resolveNext(next string) string {
	if next == "" {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/404"
	}
	if !h.matcher(u.Path) {
		return "/404"
	}
	return next
}
