// Package sessions реализует серверное хранилище сессий поверх redis.
//
// Сессия живет заданный TTL с момента последней активности: каждое
// обращение аутентифицированного клиента продлевает ключ. Уничтожение
// сессии удаляет запись целиком, а не сбрасывает флаг.
package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/model-sharing-service/internal/config"
	"github.com/magabrotheeeer/model-sharing-service/internal/models"
)

const keyPrefix = "session:"

// Store хранит сессии в redis с автоматическим истечением по TTL.
type Store struct {
	Db  *redis.Client
	ttl time.Duration
}

// InitServer подключается к redis и возвращает готовое хранилище сессий.
func InitServer(ctx context.Context, cfg config.RedisConnection, ttl time.Duration) (*Store, error) {
	const op = "sessions.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db, ttl: ttl}, nil
}

// Create создает аутентифицированную сессию для пользователя и возвращает
// непрозрачный токен, который клиент хранит в cookie.
func (s *Store) Create(ctx context.Context, username string) (string, error) {
	const op = "sessions.Create"
	token := uuid.New().String()
	session := models.Session{
		Authenticated: true,
		Username:      username,
		CreatedAt:     time.Now().UTC(),
	}
	jsonData, err := json.Marshal(session)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Set(ctx, keyPrefix+token, jsonData, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// Get возвращает сессию по токену. Второе значение false означает,
// что сессии нет или она истекла.
func (s *Store) Get(ctx context.Context, token string) (*models.Session, bool, error) {
	const op = "sessions.Get"
	val, err := s.Db.Get(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	var session models.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &session, true, nil
}

// Touch продлевает TTL сессии с момента последней активности.
func (s *Store) Touch(ctx context.Context, token string) error {
	const op = "sessions.Touch"
	if err := s.Db.Expire(ctx, keyPrefix+token, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Destroy удаляет сессию. Удаление несуществующего токена не является
// ошибкой, поэтому logout идемпотентен.
func (s *Store) Destroy(ctx context.Context, token string) error {
	const op = "sessions.Destroy"
	if err := s.Db.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
