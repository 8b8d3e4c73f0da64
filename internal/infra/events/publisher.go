package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("events: publish failed")

	// ErrClosed возвращается после Close
	ErrClosed = errors.New("events: publisher closed")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// channel подмножество *amqp.Channel, нужное издателю
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialFunc открывает соединение и канал с объявленной топологией
type dialFunc func() (channel, func() error, error)

// Publisher держит одно соединение с брокером и переподключается после ошибки
type Publisher struct {
	exchange string
	dial     dialFunc
	logger   Logger

	mu        sync.Mutex
	ch        channel
	closeConn func() error
	closed    bool
}

// NewPublisher создает издателя. Соединение открывается при первой публикации.
// Объявляется durable topic exchange и durable очередь, привязанная к reservation.*
func NewPublisher(url, exchange, queue string, logger Logger) *Publisher {
	p := &Publisher{exchange: exchange, logger: logger}
	p.dial = func() (channel, func() error, error) {
		return dialAMQP(url, exchange, queue)
	}
	return p
}

func dialAMQP(url, exchange, queue string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("channel open: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("exchange declare: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("queue declare: %w", err)
	}
	if err := ch.QueueBind(queue, "reservation.*", exchange, false, nil); err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("queue bind: %w", err)
	}

	return ch, conn.Close, nil
}

// Publish отправляет событие как persistent JSON-сообщение с routing key = тип события
func (p *Publisher) Publish(ctx context.Context, event ReservationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %w", ErrPublish, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	if p.ch == nil {
		ch, closeConn, err := p.dial()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPublish, err)
		}
		p.ch, p.closeConn = ch, closeConn
		p.logger.Info("Events: connected to broker, exchange=%s", p.exchange)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := p.ch.PublishWithContext(ctx, p.exchange, event.Type, false, false, msg); err != nil {
		// Сбрасываем соединение, следующая публикация переподключится
		p.resetLocked()
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}

	return nil
}

// Close закрывает соединение с брокером
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.resetLocked()
	return nil
}

func (p *Publisher) resetLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.closeConn != nil {
		_ = p.closeConn()
	}
	p.ch, p.closeConn = nil, nil
}

// Nop издатель для конфигурации без брокера
type Nop struct{}

func (Nop) Publish(context.Context, ReservationEvent) error { return nil }

func (Nop) Close() error { return nil }
