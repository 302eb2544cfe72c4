// Package list реализует HTTP-обработчик получения комментариев модели
// с пагинацией. Доступен пользователям с правом чтения модели.
package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/model-sharing-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/model-sharing-service/internal/http/response"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// Service описывает интерфейс бизнес-логики списка комментариев.
type Service interface {
	ListByModel(ctx context.Context, requester, modelID string, limit, offset int) ([]*models.Comment, error)
}

// Handler обрабатывает GET /api/v1/models/{id}/comments.
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

// ServeHTTP обрабатывает запрос на список комментариев модели.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	requester, _ := r.Context().Value(middlewarectx.User).(string)
	modelID := chi.URLParam(r, "id")

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	res, err := h.service.ListByModel(r.Context(), requester, modelID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, rightsservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("model not found"))
		case errors.Is(err, rightsservice.ErrAccessDenied):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to list comments", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to list comments"))
		}
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"comments": res,
		"count":    len(res),
	}))
}
