// Package update реализует HTTP-обработчик изменения модели.
//
// Nil-поля запроса не меняют соответствующие поля модели. Создатель
// и дата создания неизменяемы. Требуется право записи.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

// Request — входные данные для изменения модели. Отсутствующее поле
// означает "не менять".
type Request struct {
	Name         *string  `json:"name"`
	FileRef      *string  `json:"file_ref"`
	ThumbnailRef *string  `json:"thumbnail_ref"`
	Tags         []string `json:"tags"`
}

// Service описывает интерфейс бизнес-логики изменения модели.
type Service interface {
	Update(ctx context.Context, username, id string, upd models.ModelUpdate) error
}

// Handler обрабатывает PUT /api/v1/models/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает запрос на изменение модели.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.model.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, _ := r.Context().Value(middlewarectx.User).(string)
	id := chi.URLParam(r, "id")

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	err := h.service.Update(r.Context(), username, id, models.ModelUpdate{
		Name:         req.Name,
		FileRef:      req.FileRef,
		ThumbnailRef: req.ThumbnailRef,
		Tags:         req.Tags,
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
			log.Error("failed to update model", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update model"))
		}
		return
	}

	log.Info("updated model", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
