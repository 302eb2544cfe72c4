// Package models содержит доменные модели сервиса обмена 3D-моделями:
// пользователей, модели, права доступа, комментарии и сессии.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Username     string    // Имя пользователя (уникальное, неизменяемое)
	Email        string    // Электронная почта
	PasswordHash string    // Хэш пароля, никогда не отдается наружу
	CreatedAt    time.Time // Дата регистрации

	// WriteModels и ReadModels — производные списки идентификаторов моделей,
	// к которым у пользователя есть личный доступ. Заполняются при выдаче
	// профиля по данным таблиц models и rights.
	WriteModels []string
	ReadModels  []string
}
