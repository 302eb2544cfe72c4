// Package modelshare собирает приложение: маршруты, middleware и зависимости.
package modelshare

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/auth/token"
	commentcreate "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/comment/create"
	commentlist "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/comment/list"
	commentremove "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/comment/remove"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/health"
	modelcatalog "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/model/catalog"
	modelcreate "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/model/create"
	modellist "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/model/list"
	modelread "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/model/read"
	modelremove "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/model/remove"
	modelupdate "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/model/update"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/pages"
	rightgrant "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/right/grant"
	rightlist "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/right/list"
	rightrevoke "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/right/revoke"
	userread "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/user/read"
	userupdate "github.com/magabrotheeeer/model-sharing-service/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/sessions"

	authservice "github.com/magabrotheeeer/model-sharing-service/internal/services/auth"
	commentservice "github.com/magabrotheeeer/model-sharing-service/internal/services/comment"
	modelservice "github.com/magabrotheeeer/model-sharing-service/internal/services/model"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

// RegisterRoutes регистрирует все маршруты приложения. Таблица маршрутов
// строится один раз при старте и дальше не меняется; обработчик login
// сверяется с ней при разрешении отложенного перехода next.
func RegisterRoutes(
	r chi.Router,
	logger *slog.Logger,
	authService *authservice.AuthService,
	modelService *modelservice.ModelService,
	rightsService *rightsservice.RightsService,
	commentService *commentservice.CommentService,
	sessionStore *sessions.Store,
	cookieName string,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	matcher := func(path string) bool {
		rctx := chi.NewRouteContext()
		return r.Match(rctx, http.MethodGet, path)
	}

	// Открытые конечные точки: вход, выход и страница 404.
	// Логин и регистрация не проходят через проверку сессии,
	// иначе возник бы цикл редиректов.
	r.Get("/login", pages.LoginPage())
	r.Post("/login", login.New(logger, authService, sessionStore, cookieName, matcher).ServeHTTP)
	r.Get("/logout", logout.New(logger, sessionStore, cookieName).ServeHTTP)
	r.Get("/404", pages.NotFoundPage())

	// Браузерные страницы за проверкой сессии
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.SessionAuth(sessionStore, cookieName, logger))
		r.Get("/", pages.IndexPage(modelService, logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Регистрация доступна анонимно: это единственный способ
		// получить учетные данные. Выдача токена тоже открыта,
		// проверка учетных данных происходит внутри.
		r.Post("/users", register.New(logger, authService).ServeHTTP)
		r.Post("/token", token.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с проверкой API-токена или сессии
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.APIAuth(authService, sessionStore, cookieName, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/me", userread.New(logger, authService).ServeHTTP)
			r.Put("/users/me", userupdate.New(logger, authService).ServeHTTP)
			r.Get("/catalog", modelcatalog.New(logger, modelService).ServeHTTP)
			r.Post("/models", modelcreate.New(logger, modelService).ServeHTTP)
			r.Get("/models", modellist.New(logger, modelService).ServeHTTP)
			r.Get("/models/{id}", modelread.New(logger, modelService).ServeHTTP)
			r.Put("/models/{id}", modelupdate.New(logger, modelService).ServeHTTP)
			r.Delete("/models/{id}", modelremove.New(logger, modelService).ServeHTTP)
			r.Post("/models/{id}/rights", rightgrant.New(logger, rightsService).ServeHTTP)
			r.Get("/models/{id}/rights", rightlist.New(logger, rightsService).ServeHTTP)
			r.Delete("/models/{id}/rights/{username}", rightrevoke.New(logger, rightsService).ServeHTTP)
			r.Post("/models/{id}/comments", commentcreate.New(logger, commentService).ServeHTTP)
			r.Get("/models/{id}/comments", commentlist.New(logger, commentService).ServeHTTP)
			r.Delete("/comments/{id}", commentremove.New(logger, commentService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(pages.NotFoundPage())
}
