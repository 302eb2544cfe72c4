// Package grant реализует HTTP-обработчик выдачи права доступа к модели.
//
// Выдавать права может только пользователь с правом записи на модель.
// Повторная выдача для той же пары (модель, пользователь) перезаписывает
// уровень доступа.
package grant

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

// Request — входные данные для выдачи права.
// RightLevel=false — только чтение, true — чтение и запись.
type Request struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	RightLevel bool   `json:"right_level"`
}

// Service описывает интерфейс бизнес-логики выдачи прав.
type Service interface {
	Grant(ctx context.Context, grantor string, right models.Right) error
}

// Handler обрабатывает POST /api/v1/models/{id}/rights.
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

// ServeHTTP обрабатывает запрос на выдачу права.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.right.grant"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	grantor, _ := r.Context().Value(middlewarectx.User).(string)
	modelID := chi.URLParam(r, "id")

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

	err := h.service.Grant(r.Context(), grantor, models.Right{
		ModelID:    modelID,
		Username:   req.Username,
		RightLevel: req.RightLevel,
	})
	if err != nil {
		switch {
		case errors.Is(err, rightsservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("model not found"))
		case errors.Is(err, rightsservice.ErrAccessDenied):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to grant right", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to grant right"))
		}
		return
	}

	log.Info("granted right",
		slog.String("model_id", modelID),
		slog.String("username", req.Username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"model_id":    modelID,
		"username":    req.Username,
		"right_level": req.RightLevel,
	}))
}
