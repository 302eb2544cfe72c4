// Package catalog реализует HTTP-обработчик общего каталога моделей.
// В отличие от списка доступных моделей, каталог показывает все модели
// сервиса: права ограничивают содержимое, а не видимость в каталоге.
package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service описывает интерфейс получения каталога моделей.
type Service interface {
	Catalog(ctx context.Context, limit, offset int) ([]*models.Model, error)
}

// Handler обрабатывает GET /api/v1/catalog.
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

// ServeHTTP обрабатывает запрос каталога моделей.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.model.catalog"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	res, err := h.service.Catalog(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list catalog", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list catalog"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"models": res,
		"count":  len(res),
	}))
}
