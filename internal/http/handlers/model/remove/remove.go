// Package remove реализует HTTP-обработчик удаления модели.
//
// Требуется право записи. Права и комментарии удаленной модели
// не каскадируются: их жизненный цикл независим.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

// Service описывает интерфейс бизнес-логики удаления модели.
type Service interface {
	Remove(ctx context.Context, username, id string) error
}

// Handler обрабатывает DELETE /api/v1/models/{id}.
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

// ServeHTTP обрабатывает запрос на удаление модели.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.model.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, _ := r.Context().Value(middlewarectx.User).(string)
	id := chi.URLParam(r, "id")

	if err := h.service.Remove(r.Context(), username, id); err != nil {
		switch {
		case errors.Is(err, rightsservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("model not found"))
		case errors.Is(err, rightsservice.ErrAccessDenied):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to delete model", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to delete model"))
		}
		return
	}

	log.Info("deleted model", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
