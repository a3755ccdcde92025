// Package events publishes résumé lifecycle events to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// RoutingKeyResumeIngested is used for every successful upload.
const RoutingKeyResumeIngested = "resume.ingested"

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "resume_events"

// ResumeIngested is the body of a resume.ingested event.
type ResumeIngested struct {
	UserID          uuid.UUID `json:"user_id"`
	Filename        string    `json:"filename"`
	MediaType       string    `json:"media_type"`
	TextLength      int       `json:"text_length"`
	SkillsCount     int       `json:"skills_count"`
	EducationCount  int       `json:"education_count"`
	ExperienceCount int       `json:"experience_count"`
	IngestedAt      time.Time `json:"ingested_at"`
}

// Publisher is the contract used by the ingestion service.
type Publisher interface {
	PublishResumeIngested(ctx context.Context, evt ResumeIngested) error
}

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON events on a single channel. amqp channels are
// not safe for concurrent publishing, so Publish is serialized.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	ch       channel
	exchange string
}

// Dial connects to the broker, opens a channel and declares the exchange.
func Dial(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	p, err := newPublisher(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{ch: ch, exchange: exchange}, nil
}

// PublishResumeIngested sends evt with routing key resume.ingested.
func (p *AMQPPublisher) PublishResumeIngested(ctx context.Context, evt ResumeIngested) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(p.exchange, RoutingKeyResumeIngested, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    evt.IngestedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", RoutingKeyResumeIngested, err)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Noop drops events.
type Noop struct{}

func (Noop) PublishResumeIngested(context.Context, ResumeIngested) error { return nil }
