// Package revoke реализует HTTP-обработчик отзыва права доступа к модели.
//
// Отзывать права может только пользователь с правом записи на модель.
package revoke

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

// Service описывает интерфейс бизнес-логики отзыва прав.
type Service interface {
	Revoke(ctx context.Context, grantor, modelID, username string) error
}

// Handler обрабатывает DELETE /api/v1/models/{id}/rights/{username}.
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

// ServeHTTP обрабатывает запрос на отзыв права.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.right.revoke"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	grantor, _ := r.Context().Value(middlewarectx.User).(string)
	modelID := chi.URLParam(r, "id")
	username := chi.URLParam(r, "username")

	if err := h.service.Revoke(r.Context(), grantor, modelID, username); err != nil {
		switch {
		case errors.Is(err, rightsservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("right not found"))
		case errors.Is(err, rightsservice.ErrAccessDenied):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		default:
			log.Error("failed to revoke right", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to revoke right"))
		}
		return
	}

	log.Info("revoked right",
		slog.String("model_id", modelID),
		slog.String("username", username))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"model_id": modelID,
		"username": username,
	}))
}
