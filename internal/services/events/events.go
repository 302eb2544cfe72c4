// Package services содержит публикацию событий активности в RabbitMQ.
// События потребляются внешними сервисами (лента активности, уведомления);
// сбой публикации никогда не приводит к отказу пользовательской операции.
package services

import (
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/model-sharing-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/model-sharing-service/internal/lib/sl"
)

// Ключи маршрутизации событий активности.
const (
	RoutingKeyModelCreated   = "model.created"
	RoutingKeyCommentCreated = "comment.created"
)

// Event — сообщение о событии активности.
type Event struct {
	Type    string    `json:"type"`
	ModelID string    `json:"model_id"`
	Actor   string    `json:"actor"`
	At      time.Time `json:"at"`
}

// EventsService публикует события активности в exchange.
type EventsService struct {
	ch       *amqp.Channel
	exchange string
	log      *slog.Logger
}

// NewEventsService создает новый экземпляр EventsService.
func NewEventsService(ch *amqp.Channel, exchange string, log *slog.Logger) *EventsService {
	return &EventsService{ch: ch, exchange: exchange, log: log}
}

// Publish отправляет событие с заданным ключом маршрутизации.
// Ошибка публикации логируется, но не возвращается вызывающему:
// доставка событий не входит в контракт пользовательской операции.
func (s *EventsService) Publish(routingKey, modelID, actor string) {
	event := Event{
		Type:    routingKey,
		ModelID: modelID,
		Actor:   actor,
		At:      time.Now().UTC(),
	}
	if err := rabbitmq.PublishMessage(s.ch, s.exchange, routingKey, event); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("routing_key", routingKey), sl.Err(err))
	}
}
