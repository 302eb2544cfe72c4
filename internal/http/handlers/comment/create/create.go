// Package create реализует HTTP-обработчик добавления комментария к модели.
//
// Комментировать может любой пользователь с правом чтения модели.
// Родительский комментарий, если указан, должен относиться к той же модели.
package create

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
	commentservice "github.com/magabrotheeeer/model-sharing-service/internal/services/comment"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
)

// Request — входные данные для добавления комментария.
type Request struct {
	Text     string `json:"text" validate:"required,min=1,max=2000"`
	ParentID string `json:"parent_id" validate:"omitempty,uuid"`
}

// Service описывает интерфейс бизнес-логики добавления комментария.
type Service interface {
	Add(ctx context.Context, author string, c models.Comment) (string, error)
}

// Handler обрабатывает POST /api/v1/models/{id}/comments.
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

// ServeHTTP обрабатывает запрос на добавление комментария.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.comment.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	author, _ := r.Context().Value(middlewarectx.User).(string)
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

	id, err := h.service.Add(r.Context(), author, models.Comment{
		ModelID:  modelID,
		ParentID: req.ParentID,
		Text:     req.Text,
	})
	if err != nil {
		switch {
		case errors.Is(err, rightsservice.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("model or parent comment not found"))
		case errors.Is(err, rightsservice.ErrAccessDenied):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("access denied"))
		case errors.Is(err, commentservice.ErrParentMismatch):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("parent comment belongs to another model"))
		default:
			log.Error("failed to create comment", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to create comment"))
		}
		return
	}

	log.Info("created comment", slog.String("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"id": id,
	}))
}
