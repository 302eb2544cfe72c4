package models

import "time"

// Session — серверное состояние аутентификации клиента. Хранится в redis
// под непрозрачным токеном из cookie и живет заданный TTL с момента
// последней активности. Никогда не переживает хранилище.
type Session struct {
	Authenticated bool      `json:"authenticated"`
	Username      string    `json:"username"`
	CreatedAt     time.Time `json:"created_at"`
}
