// Package services содержит бизнес-логику для работы с комментариями.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	eventsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/events"
	rightsservice "github.com/magabrotheeeer/model-sharing-service/internal/services/rights"
	"github.com/magabrotheeeer/model-sharing-service/internal/storage/repository"
)

// ErrParentMismatch возвращается, когда родительский комментарий
// относится к другой модели.
var ErrParentMismatch = errors.New("parent comment belongs to another model")

// CommentRepository определяет методы хранилища для работы с комментариями.
type CommentRepository interface {
	// CreateComment сохраняет комментарий и возвращает его ID.
	CreateComment(ctx context.Context, c models.Comment) (string, error)
	// GetComment возвращает комментарий по ID.
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	// ListCommentsByModel возвращает комментарии модели с пагинацией.
	ListCommentsByModel(ctx context.Context, modelID string, limit, offset int) ([]*models.Comment, error)
	// RemoveComment удаляет комментарий по ID.
	RemoveComment(ctx context.Context, id string) (int64, error)
	// GetModel возвращает модель по ID.
	GetModel(ctx context.Context, id string) (*models.Model, error)
}

// RightsResolver вычисляет уровень доступа пользователя к модели.
type RightsResolver interface {
	Resolve(ctx context.Context, username, modelID string) (models.Access, error)
}

// Notifier публикует события активности.
type Notifier interface {
	Publish(routingKey, modelID, actor string)
}

// CommentService реализует операции над комментариями.
type CommentService struct {
	repo   CommentRepository
	rights RightsResolver
	events Notifier
	log    *slog.Logger
}

// NewCommentService создает новый экземпляр CommentService.
func NewCommentService(repo CommentRepository, rights RightsResolver, events Notifier, log *slog.Logger) *CommentService {
	return &CommentService{
		repo:   repo,
		rights: rights,
		events: events,
		log:    log,
	}
}

// Add создает комментарий от имени автора; требуется право чтения модели.
// Родительский комментарий, если указан, должен относиться к той же модели.
func (s *CommentService) Add(ctx context.Context, author string, c models.Comment) (string, error) {
	access, err := s.rights.Resolve(ctx, author, c.ModelID)
	if err != nil {
		return "", err
	}
	if !access.CanRead() {
		return "", rightsservice.ErrAccessDenied
	}
	if c.ParentID != "" {
		parent, err := s.repo.GetComment(ctx, c.ParentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return "", rightsservice.ErrNotFound
			}
			return "", err
		}
		if parent.ModelID != c.ModelID {
			return "", ErrParentMismatch
		}
	}
	c.Author = author
	id, err := s.repo.CreateComment(ctx, c)
	if err != nil {
		return "", err
	}
	s.log.Info("created new comment", slog.String("id", id), slog.String("model_id", c.ModelID))
	s.events.Publish(eventsservice.RoutingKeyCommentCreated, c.ModelID, author)
	return id, nil
}

// ListByModel возвращает комментарии модели; требуется право чтения.
func (s *CommentService) ListByModel(ctx context.Context, requester, modelID string, limit, offset int) ([]*models.Comment, error) {
	access, err := s.rights.Resolve(ctx, requester, modelID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, rightsservice.ErrAccessDenied
	}
	return s.repo.ListCommentsByModel(ctx, modelID, limit, offset)
}

// Remove удаляет комментарий. Разрешено автору комментария и создателю модели.
func (s *CommentService) Remove(ctx context.Context, requester, id string) error {
	comment, err := s.repo.GetComment(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return rightsservice.ErrNotFound
		}
		return err
	}
	if comment.Author != requester {
		model, err := s.repo.GetModel(ctx, comment.ModelID)
		if err != nil || model.Creator != requester {
			return rightsservice.ErrAccessDenied
		}
	}
	if _, err := s.repo.RemoveComment(ctx, id); err != nil {
		return err
	}
	s.log.Info("removed comment", slog.String("id", id), slog.String("username", requester))
	return nil
}
