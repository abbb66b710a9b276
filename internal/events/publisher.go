// Package events publishes domain events to RabbitMQ. Failures are logged
// and returned; callers treat the broker as best-effort.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/lefade-api/internal/audit"
)

var ErrClosed = errors.New("events: publisher closed")

// Message is the body written to the queue.
type Message struct {
	Type     string    `json:"type"`
	ActorID  *uint     `json:"actorId,omitempty"`
	Entity   string    `json:"entity"`
	EntityID *uint     `json:"entityId,omitempty"`
	Data     any       `json:"data,omitempty"`
	At       time.Time `json:"at"`
}

// Publisher keeps one connection and channel open and redials lazily
// after the broker drops them.
type Publisher struct {
	url   string
	queue string

	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed bool
}

func NewPublisher(url, queue string) *Publisher {
	return &Publisher{url: url, queue: queue}
}

// Record implements audit.Sink.
func (p *Publisher) Record(ctx context.Context, ev audit.Event) error {
	return p.Publish(ctx, Message{
		Type:     ev.Action,
		ActorID:  ev.ActorID,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Data:     ev.Metadata,
		At:       ev.At,
	})
}

func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	if msg.At.IsZero() {
		msg.At = time.Now().UTC()
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		log.Warn().Err(err).Msg("rabbitmq: channel unavailable")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    msg.At,
		Type:         msg.Type,
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Warn().Err(err).Str("type", msg.Type).Msg("rabbitmq: publish failed")
		p.reset()
		return err
	}
	return nil
}

// channel must be called with mu held.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.reset()
	return nil
}
