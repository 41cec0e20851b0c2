// Package rabbitmq publishes loan lifecycle events to a topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventLoanCreated = "loan.created"
	EventLoanFunded  = "loan.funded"
	EventLoanClosed  = "loan.closed"

	DefaultExchange = "loan_events"
)

// LoanEvent is the payload published after a loan transition commits.
// Type doubles as the routing key.
type LoanEvent struct {
	EventID    uuid.UUID `json:"event_id"`
	Type       string    `json:"type"`
	LoanID     string    `json:"loan_id"`
	Actor      string    `json:"actor,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	State      int       `json:"state"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher is implemented by EventProducer and EventProducerFallback.
type Publisher interface {
	PublishLoanEvent(ctx context.Context, ev LoanEvent) error
	Close()
}

// EventProducer holds the RabbitMQ connection and channel for publishing messages.
type EventProducer struct {
	mu       sync.Mutex
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	log      *zap.Logger
}

// EventProducerFallback is a no-op publisher used when RabbitMQ is unavailable at startup.
type EventProducerFallback struct{ Log *zap.Logger }

func (p *EventProducerFallback) PublishLoanEvent(ctx context.Context, ev LoanEvent) error {
	if p.Log != nil {
		p.Log.Warn("loan event publish skipped",
			zap.String("component", "rabbitmq_producer"),
			zap.String("mode", "fallback"),
			zap.String("routing_key", ev.Type),
			zap.String("loan_id", ev.LoanID),
		)
	}
	return nil
}

func (p *EventProducerFallback) Close() {}

func sanitizeAMQPURL(raw string) (string, error) {
	clean := strings.Trim(strings.TrimSpace(raw), "\"'")
	if clean == "" {
		return "", errors.New("empty AMQP URL")
	}
	u, err := url.Parse(clean)
	if err != nil {
		return "", err
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return "", errors.New("AMQP scheme must be either 'amqp://' or 'amqps://'")
	}
	return clean, nil
}

// NewEventProducer dials RabbitMQ and declares the durable topic exchange.
func NewEventProducer(amqpURL, exchange string, log *zap.Logger) (*EventProducer, error) {
	cleanURL, err := sanitizeAMQPURL(amqpURL)
	if err != nil {
		return nil, err
	}
	if exchange == "" {
		exchange = DefaultExchange
	}
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := amqp091.DialConfig(cleanURL, amqp091.Config{Dial: amqp091.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if err := declare(ch, exchange); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	return &EventProducer{conn: conn, channel: ch, exchange: exchange, log: log}, nil
}

func declare(ch *amqp091.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // autoDelete
		false,    // internal
		false,    // noWait
		nil,      // args
	)
}

// PublishLoanEvent publishes ev with its Type as routing key, reopening the
// channel once if the first attempt fails.
func (p *EventProducer) PublishLoanEvent(ctx context.Context, ev LoanEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	msg := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    ev.EventID.String(),
		Timestamp:    ev.OccurredAt,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx, p.exchange, ev.Type, false, false, msg)
	if err == nil {
		return nil
	}
	p.log.Warn("publish failed; reopening channel",
		zap.String("component", "rabbitmq_producer"),
		zap.String("routing_key", ev.Type),
		zap.Error(err),
	)
	ch, chErr := p.conn.Channel()
	if chErr != nil {
		return errors.Join(err, chErr)
	}
	p.channel = ch
	if exErr := declare(ch, p.exchange); exErr != nil {
		return errors.Join(err, exErr)
	}
	return p.channel.PublishWithContext(ctx, p.exchange, ev.Type, false, false, msg)
}

// Close gracefully closes the channel and connection to RabbitMQ.
func (p *EventProducer) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
