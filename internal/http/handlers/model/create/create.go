// Package create реализует HTTP-обработчик загрузки новой модели.
//
// Создатель определяется по аутентифицированному пользователю из
// контекста запроса и всегда получает право записи на свою модель.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

// Request — входные данные для создания модели.
type Request struct {
	Name         string   `json:"name" validate:"required,min=1,max=200"`
	FileRef      string   `json:"file_ref" validate:"required"`
	ThumbnailRef string   `json:"thumbnail_ref"`
	Tags         []string `json:"tags"`
}

// Service описывает интерфейс бизнес-логики создания модели.
type Service interface {
	Create(ctx context.Context, creator string, m models.Model) (string, error)
}

// Handler обрабатывает POST /api/v1/models.
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

// ServeHTTP обрабатывает запрос на создание модели.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.model.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("user identification missing")
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

	id, err := h.service.Create(r.Context(), username, models.Model{
		Name:         req.Name,
		FileRef:      req.FileRef,
		ThumbnailRef: req.ThumbnailRef,
		Tags:         req.Tags,
	})
	if err != nil {
		log.Error("failed to create model", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create model"))
		return
	}

	log.Info("created model", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
