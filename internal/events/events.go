// Package events публикует доменные события трекера в RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Типы событий, они же ключи маршрутизации.
const (
	UserRegistered      = "user.registered"
	SubscriptionCreated = "subscription.created"
	SubscriptionUpdated = "subscription.updated"
	SubscriptionDeleted = "subscription.deleted"
)

// Event тело публикуемого сообщения.
type Event struct {
	Type           string               `json:"type"`
	UserID         string               `json:"user_id"`
	SubscriptionID string               `json:"subscription_id,omitempty"`
	OccurredAt     time.Time            `json:"occurred_at"`
	Subscription   *models.Subscription `json:"subscription,omitempty"`
}

// New собирает событие с текущим временем.
func New(eventType, userID string, sub *models.Subscription) Event {
	e := Event{
		Type:       eventType,
		UserID:     userID,
		OccurredAt: time.Now().UTC(),
	}
	if sub != nil {
		cp := *sub
		e.SubscriptionID = cp.ID
		e.Subscription = &cp
	}
	return e
}

// Publisher отправляет события. Ошибка публикации не должна ломать запрос,
// поэтому вызывающий код её только логирует.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// AppID отправитель в свойствах сообщения.
const AppID = "subscription-tracker"

// Channel часть *amqp.Channel, нужная издателю.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher публикует события в exchange RabbitMQ.
// Канал amqp не потокобезопасен, поэтому публикация идёт под мьютексом.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
}

// NewAMQPPublisher создаёт издателя поверх канала с объявленным exchange.
func NewAMQPPublisher(ch Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие в JSON с ключом маршрутизации, равным его типу.
// Владелец события дублируется в заголовке user_id.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	const op = "events.AMQPPublisher.Publish"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    e.OccurredAt,
		Type:         e.Type,
		AppId:        AppID,
		Headers:      amqp.Table{"user_id": e.UserID},
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Publish(p.exchange, e.Type, false, false, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ch.Close()
}

// Nop издатель, когда брокер не настроен.
type Nop struct{}

// Publish ничего не делает.
func (Nop) Publish(context.Context, Event) error { return nil }

// Emit публикует событие и логирует неудачу.
func Emit(ctx context.Context, log *slog.Logger, p Publisher, e Event) {
	if err := p.Publish(ctx, e); err != nil {
		log.Warn("failed to publish event", slog.String("type", e.Type), sl.Err(err))
	}
}
