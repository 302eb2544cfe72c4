// Package services содержит бизнес-логику для работы с 3D-моделями.
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

// ModelRepository определяет методы хранилища для работы с моделями.
type ModelRepository interface {
	// CreateModel сохраняет модель и возвращает её ID.
	CreateModel(ctx context.Context, m models.Model) (string, error)
	// GetModel возвращает модель по ID.
	GetModel(ctx context.Context, id string) (*models.Model, error)
	// UpdateModel обновляет поля модели и возвращает число затронутых записей.
	UpdateModel(ctx context.Context, id string, upd models.ModelUpdate) (int64, error)
	// RemoveModel удаляет модель по ID.
	RemoveModel(ctx context.Context, id string) (int64, error)
	// ListModelsByUser возвращает модели, доступные пользователю, с пагинацией.
	ListModelsByUser(ctx context.Context, username string, limit, offset int) ([]*models.Model, error)
	// ListModels возвращает все модели с пагинацией.
	ListModels(ctx context.Context, limit, offset int) ([]*models.Model, error)
}

// RightsResolver вычисляет уровень доступа пользователя к модели.
type RightsResolver interface {
	Resolve(ctx context.Context, username, modelID string) (models.Access, error)
}

// Notifier публикует события активности.
type Notifier interface {
	Publish(routingKey, modelID, actor string)
}

// ModelService реализует операции над моделями с проверкой прав доступа.
type ModelService struct {
	repo   ModelRepository
	rights RightsResolver
	events Notifier
	log    *slog.Logger
}

// NewModelService создает новый экземпляр ModelService.
func NewModelService(repo ModelRepository, rights RightsResolver, events Notifier, log *slog.Logger) *ModelService {
	return &ModelService{
		repo:   repo,
		rights: rights,
		events: events,
		log:    log,
	}
}

// Create сохраняет новую модель от имени пользователя и публикует
// событие model.created.
func (s *ModelService) Create(ctx context.Context, creator string, m models.Model) (string, error) {
	m.Creator = creator
	id, err := s.repo.CreateModel(ctx, m)
	if err != nil {
		return "", err
	}
	s.log.Info("created new model", slog.String("id", id), slog.String("creator", creator))
	s.events.Publish(eventsservice.RoutingKeyModelCreated, id, creator)
	return id, nil
}

// Read возвращает модель; требуется право чтения.
func (s *ModelService) Read(ctx context.Context, username, id string) (*models.Model, error) {
	access, err := s.rights.Resolve(ctx, username, id)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, rightsservice.ErrAccessDenied
	}
	m, err := s.repo.GetModel(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, rightsservice.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

// Update изменяет поля модели; требуется право записи.
func (s *ModelService) Update(ctx context.Context, username, id string, upd models.ModelUpdate) error {
	access, err := s.rights.Resolve(ctx, username, id)
	if err != nil {
		return err
	}
	if !access.CanWrite() {
		return rightsservice.ErrAccessDenied
	}
	count, err := s.repo.UpdateModel(ctx, id, upd)
	if err != nil {
		return err
	}
	if count == 0 {
		return rightsservice.ErrNotFound
	}
	s.log.Info("updated model", slog.String("id", id), slog.String("username", username))
	return nil
}

// Remove удаляет модель; требуется право записи. Права и комментарии
// модели не каскадируются.
func (s *ModelService) Remove(ctx context.Context, username, id string) error {
	access, err := s.rights.Resolve(ctx, username, id)
	if err != nil {
		return err
	}
	if !access.CanWrite() {
		return rightsservice.ErrAccessDenied
	}
	count, err := s.repo.RemoveModel(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return rightsservice.ErrNotFound
	}
	s.log.Info("removed model", slog.String("id", id), slog.String("username", username))
	return nil
}

// List возвращает модели, доступные пользователю, с пагинацией.
func (s *ModelService) List(ctx context.Context, username string, limit, offset int) ([]*models.Model, error) {
	return s.repo.ListModelsByUser(ctx, username, limit, offset)
}

// Catalog возвращает общий каталог моделей с пагинацией. Каталог виден
// любому аутентифицированному пользователю, права фильтруют только
// доступ к содержимому модели, не к факту её существования в каталоге.
func (s *ModelService) Catalog(ctx context.Context, limit, offset int) ([]*models.Model, error) {
	return s.repo.ListModels(ctx, limit, offset)
}
