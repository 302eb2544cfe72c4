// Package services содержит бизнес-логику разрешения и выдачи прав
// доступа к моделям.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	"github.com/magabrotheeeer/model-sharing-service/internal/storage/repository"
)

// ErrAccessDenied возвращается, когда у пользователя недостаточно прав
// на операцию.
var ErrAccessDenied = errors.New("access denied")

// ErrNotFound возвращается, когда модель или право не найдены.
var ErrNotFound = errors.New("not found")

// RightRepository определяет методы хранилища для работы с правами.
type RightRepository interface {
	// UpsertRight сохраняет право, перезаписывая существующее для той же пары.
	UpsertRight(ctx context.Context, right models.Right) error
	// GetRight возвращает право пары (модель, пользователь).
	GetRight(ctx context.Context, modelID, username string) (*models.Right, error)
	// RemoveRight отзывает право и возвращает количество удалённых записей.
	RemoveRight(ctx context.Context, modelID, username string) (int64, error)
	// ListRightsByModel возвращает все права, выданные на модель.
	ListRightsByModel(ctx context.Context, modelID string) ([]*models.Right, error)
	// GetModel возвращает модель по идентификатору.
	GetModel(ctx context.Context, id string) (*models.Model, error)
}

// RightsService реализует разрешение уровня доступа и управление правами.
type RightsService struct {
	repo RightRepository
	log  *slog.Logger
}

// NewRightsService создает новый экземпляр RightsService.
func NewRightsService(repo RightRepository, log *slog.Logger) *RightsService {
	return &RightsService{repo: repo, log: log}
}

// Resolve вычисляет уровень доступа пользователя к модели:
// создатель всегда имеет запись, далее смотрится таблица прав.
func (s *RightsService) Resolve(ctx context.Context, username, modelID string) (models.Access, error) {
	model, err := s.repo.GetModel(ctx, modelID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.AccessNone, ErrNotFound
		}
		return models.AccessNone, err
	}
	if model.Creator == username {
		return models.AccessWrite, nil
	}
	right, err := s.repo.GetRight(ctx, modelID, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.AccessNone, nil
		}
		return models.AccessNone, err
	}
	if right.RightLevel {
		return models.AccessWrite, nil
	}
	return models.AccessRead, nil
}

// Grant выдает право на модель. Выдавать права может только пользователь
// с правом записи. Повторная выдача перезаписывает уровень.
func (s *RightsService) Grant(ctx context.Context, grantor string, right models.Right) error {
	access, err := s.Resolve(ctx, grantor, right.ModelID)
	if err != nil {
		return err
	}
	if !access.CanWrite() {
		return ErrAccessDenied
	}
	if err := s.repo.UpsertRight(ctx, right); err != nil {
		return err
	}
	s.log.Info("granted right",
		slog.String("model_id", right.ModelID),
		slog.String("username", right.Username),
		slog.Bool("right_level", right.RightLevel))
	return nil
}

// Revoke отзывает право на модель, проверяя право записи отзывающего.
func (s *RightsService) Revoke(ctx context.Context, grantor, modelID, username string) error {
	access, err := s.Resolve(ctx, grantor, modelID)
	if err != nil {
		return err
	}
	if !access.CanWrite() {
		return ErrAccessDenied
	}
	count, err := s.repo.RemoveRight(ctx, modelID, username)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	s.log.Info("revoked right",
		slog.String("model_id", modelID),
		slog.String("username", username))
	return nil
}

// ListForModel возвращает права модели. Смотреть список может любой
// пользователь с правом чтения.
func (s *RightsService) ListForModel(ctx context.Context, requester, modelID string) ([]*models.Right, error) {
	access, err := s.Resolve(ctx, requester, modelID)
	if err != nil {
		return nil, err
	}
	if !access.CanRead() {
		return nil, ErrAccessDenied
	}
	return s.repo.ListRightsByModel(ctx, modelID)
}
