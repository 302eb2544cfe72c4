// Package token реализует HTTP-обработчик выдачи API-токена.
//
// Клиент передает учетные данные и при успешной проверке получает JWT,
// который затем используется в заголовке Authorization вместо
// сессионной cookie.
package token

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
)

// Request — учетные данные для выдачи токена.
type Request struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required"`
}

// Service описывает интерфейс выдачи API-токена.
type Service interface {
	IssueAPIToken(ctx context.Context, username, password string) (string, error)
}

// Handler обрабатывает POST /api/v1/token.
type Handler struct {
	log      *slog.Logger
	auth     Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает запрос на выдачу API-токена.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.token"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	apiToken, err := h.auth.IssueAPIToken(r.Context(), req.Username, req.Password)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"token":    apiToken,
		"username": req.Username,
	}))
}
