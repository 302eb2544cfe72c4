// Package read реализует HTTP-обработчик получения модели по ID.
//
// Доступ проверяется бизнес-логикой: нужен хотя бы уровень чтения.
package read

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
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

// Service описывает интерфейс бизнес-логики чтения модели.
type Service interface {
	Read(ctx context.Context, username, id string) (*models.Model, error)
}

// Handler обрабатывает GET /api/v1/models/{id}.
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

// ServeHTTP обрабатывает запрос на чтение модели.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.model.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	username, _ := r.Context().Value(middlewarectx.User).(string)
	id := chi.URLParam(r, "id")

	res, err := h.service.Read(r.Context(), username, id)
	if err != nil {
		switch {
		case errors.Is(err, rightsservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("model not found"))
		case errors.Is(err, rightsservice.ErrAccessDenied):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to read model", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not read model"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"model": res,
	}))
}
