// Package middlewarectx содержит HTTP middleware контроля доступа:
// проверку сессионной cookie для браузерных страниц, проверку API-токена
// для REST-эндпоинтов и ограничение частоты запросов.
package middlewarectx

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для имени пользователя в контексте
	User Key = "username"
)
