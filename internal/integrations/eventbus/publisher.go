package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/itvlab/lab-scheduler/internal/domain"
)

// Channel часть *amqp.Channel, нужная для публикации
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Publisher публикует события бронирований в topic exchange RabbitMQ
type Publisher struct {
	mu         sync.Mutex
	conn       *amqp.Connection
	ch         Channel
	exchange   string
	routingKey string
	now        func() time.Time
	log        Logger
}

// Dial подключается к брокеру и объявляет durable topic exchange
func Dial(url, exchange, routingKey string, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("%w: declare exchange %q: %v", ErrConnect, exchange, err)
	}

	p := NewPublisher(ch, exchange, routingKey, log)
	p.conn = conn
	return p, nil
}

// NewPublisher создает Publisher поверх открытого канала
func NewPublisher(ch Channel, exchange, routingKey string, log Logger) *Publisher {
	return &Publisher{
		ch:         ch,
		exchange:   exchange,
		routingKey: routingKey,
		now:        time.Now,
		log:        log,
	}
}

// Name имя канала уведомлений
func (p *Publisher) Name() string {
	return "amqp"
}

// NotifyBookingConfirmed публикует событие booking.confirmed
func (p *Publisher) NotifyBookingConfirmed(ctx context.Context, c domain.Confirmation) error {
	event := NewBookingConfirmedEvent(uuid.NewString(), p.now(), c)
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: encode event: %v", ErrPublish, err)
	}

	// amqp.Channel не безопасен для конкурентной публикации
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID,
		Type:         EventBookingConfirmed,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		p.log.Error("EventBus: failed to publish %s for %s: %v", EventBookingConfirmed, c.UserEmail, err)
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.log.Info("EventBus: published %s id=%s (%d slots)", EventBookingConfirmed, event.EventID, len(event.Slots))
	return nil
}

// Close закрывает канал и соединение
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
