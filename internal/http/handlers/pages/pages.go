// Package pages реализует минимальные серверные страницы: форму входа,
// главную страницу со списком моделей пользователя и страницу 404.
// Шаблоны встроены в бинарь, внешних файлов нет.
package pages

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="POST" action="/login">
  <input type="hidden" name="next" value="{{.Next}}">
  <label>Username <input type="text" name="username"></label>
  <label>Password <input type="password" name="password"></label>
  <button type="submit">Login</button>
</form>
</body>
</html>
`))

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><title>Models</title></head>
<body>
<h1>Hello, {{.Username}}</h1>
<p><a href="/logout">Logout</a></p>
<ul>
{{range .Models}}<li>{{.Name}} by {{.Creator}}</li>
{{else}}<li>No models yet</li>
{{end}}</ul>
</body>
</html>
`))

var notFoundTmpl = template.Must(template.New("notfound").Parse(`<!DOCTYPE html>
<html>
<head><title>Not found</title></head>
<body><h1>404 - page not found</h1><p><a href="/">Home</a></p></body>
</html>
`))

// RenderLogin отрисовывает форму входа. errMsg — общий текст ошибки
// аутентификации, next — отложенный адрес перехода после входа.
func RenderLogin(w http.ResponseWriter, next, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = loginTmpl.Execute(w, struct {
		Next  string
		Error string
	}{Next: next, Error: errMsg})
}

// RenderNotFound отрисовывает страницу 404 с соответствующим статусом.
func RenderNotFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = notFoundTmpl.Execute(w, nil)
}

// LoginPage возвращает обработчик GET /login.
func LoginPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RenderLogin(w, r.URL.Query().Get("next"), "")
	}
}

// NotFoundPage возвращает обработчик GET /404 и обработчик
// незарегистрированных маршрутов.
func NotFoundPage() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		RenderNotFound(w)
	}
}

// ModelLister описывает интерфейс получения моделей пользователя
// для главной страницы.
type ModelLister interface {
	List(ctx context.Context, username string, limit, offset int) ([]*models.Model, error)
}

// IndexPage возвращает обработчик GET / — главную страницу
// аутентифицированного пользователя.
func IndexPage(service ModelLister, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pages.IndexPage"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		username, _ := r.Context().Value(middlewarectx.User).(string)

		list, err := service.List(r.Context(), username, 50, 0)
		if err != nil {
			log.Error("failed to list models", sl.Err(err))
			list = nil
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = indexTmpl.Execute(w, struct {
			Username string
			Models   []*models.Model
		}{Username: username, Models: list})
	}
}
