// Package update реализует HTTP-обработчик изменения учетных данных
// текущего пользователя: почты и пароля. Смена пароля требует
// подтверждения старым паролем.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	authservice "github.com/magabrotheeeer/model-sharing-service/internal/services/auth"
)

// Request — изменяемые поля профиля. Пустое поле не меняется.
type Request struct {
	Email       string `json:"email" validate:"omitempty,email"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"omitempty,min=6"`
}

// Service описывает интерфейс изменения учетных данных.
type Service interface {
	UpdateEmail(ctx context.Context, username, email string) error
	UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

// Handler обрабатывает PUT /api/v1/users/me.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает запрос на изменение учетных данных.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("no username in request context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

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

	if req.Email == "" && req.NewPassword == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("nothing to update"))
		return
	}
	if req.NewPassword != "" && req.OldPassword == "" {
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("old_password is required to change password"))
		return
	}

	if req.Email != "" {
		if err := h.service.UpdateEmail(r.Context(), username, req.Email); err != nil {
			h.writeServiceError(w, r, log, "failed to update email", err)
			return
		}
	}
	if req.NewPassword != "" {
		if err := h.service.UpdatePassword(r.Context(), username, req.OldPassword, req.NewPassword); err != nil {
			h.writeServiceError(w, r, log, "failed to update password", err)
			return
		}
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"username": username,
		"message":  "user updated successfully",
	}))
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request,
	log *slog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, authservice.ErrInvalidCredentials):
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
	case errors.Is(err, authservice.ErrUserNotFound):
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
	default:
		log.Error(msg, sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(msg))
	}
}
