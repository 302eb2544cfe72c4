// Package services содержит логику бизнес-уровня для работы
// с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/model-sharing-service/internal/lib/password"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/token"
	"github.com/magabrotheeeer/model-sharing-service/internal/metrics"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
	"github.com/magabrotheeeer/model-sharing-service/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при любой неудаче проверки учетных
// данных: неизвестный пользователь, неверный пароль и ошибка хранилища
// наружу неразличимы, чтобы не давать сигнала для перебора имен.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUserExists возвращается при регистрации с занятым username.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound возвращается операциями над профилем, когда пользователь
// отсутствует в хранилище.
var ErrUserNotFound = errors.New("user not found")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUserEmail изменяет почту и возвращает число затронутых записей.
	UpdateUserEmail(ctx context.Context, username, email string) (int64, error)

	// UpdateUserPassword изменяет хэш пароля и возвращает число затронутых записей.
	UpdateUserPassword(ctx context.Context, username, passwordHash string) (int64, error)

	// ListWriteModels возвращает идентификаторы моделей, доступных на запись.
	ListWriteModels(ctx context.Context, username string) ([]string, error)

	// ListReadModels возвращает идентификаторы моделей, доступных только на чтение.
	ListReadModels(ctx context.Context, username string) ([]string, error)
}

// AuthService отвечает за регистрацию, проверку учетных данных
// и выдачу API-токенов.
type AuthService struct {
	users      UserRepository
	tokenMaker token.Maker
	log        *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokenMaker token.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMaker: tokenMaker,
		log:        log,
	}
}

// Register создает нового пользователя с хэшированием пароля.
// Пароль в открытом виде дальше этой функции не уходит.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return "", ErrUserExists
		}
		return "", err
	}
	s.log.Info("registered new user", slog.String("username", username))
	return uid, nil
}

// Login проверяет пароль пользователя по точному совпадению username.
//
// Неизвестный пользователь, ошибка хранилища и несовпадение пароля дают
// один и тот же результат ErrInvalidCredentials. В лог при неудаче
// попадает только имя пользователя, пароль не логируется никогда.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Error("login failed", slog.String("username", username), sl.Err(err))
		metrics.LoginFailure.Inc()
		return nil, ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		s.log.Error("login failed", slog.String("username", username))
		metrics.LoginFailure.Inc()
		return nil, ErrInvalidCredentials
	}
	s.log.Info("login success", slog.String("username", username))
	metrics.LoginSuccess.Inc()
	return user, nil
}

// IssueAPIToken проверяет учетные данные и выдает JWT для API-доступа.
func (s *AuthService) IssueAPIToken(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.Login(ctx, username, rawPassword)
	if err != nil {
		return "", err
	}
	return s.tokenMaker.GenerateToken(user.Username)
}

// ValidateAPIToken проверяет JWT и возвращает username владельца.
func (s *AuthService) ValidateAPIToken(_ context.Context, tokenStr string) (string, error) {
	claims, err := s.tokenMaker.ParseToken(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// Profile возвращает профиль пользователя с производными списками
// WriteModels и ReadModels. Хэш пароля в результат не попадает.
func (s *AuthService) Profile(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""

	if user.WriteModels, err = s.users.ListWriteModels(ctx, username); err != nil {
		return nil, err
	}
	if user.ReadModels, err = s.users.ListReadModels(ctx, username); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateEmail изменяет электронную почту пользователя.
func (s *AuthService) UpdateEmail(ctx context.Context, username, email string) error {
	count, err := s.users.UpdateUserEmail(ctx, username, email)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	s.log.Info("updated user email", slog.String("username", username))
	return nil
}

// UpdatePassword меняет пароль после проверки старого. Неверный старый
// пароль и неизвестный пользователь дают одинаковый ErrInvalidCredentials,
// сами пароли в лог не попадают.
func (s *AuthService) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Error("password change failed", slog.String("username", username), sl.Err(err))
		return ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, oldPassword); err != nil {
		s.log.Error("password change failed", slog.String("username", username))
		return ErrInvalidCredentials
	}

	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	count, err := s.users.UpdateUserPassword(ctx, username, hashed)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	s.log.Info("updated user password", slog.String("username", username))
	return nil
}
