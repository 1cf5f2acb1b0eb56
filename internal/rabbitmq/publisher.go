package rabbitmq

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

type publisher struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchangeName string
	mu           sync.Mutex
}

// NewPublisher dials RabbitMQ and declares a durable topic exchange.
func NewPublisher(amqpURL, exchangeName string) (Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	p := &publisher{conn: conn, channel: ch, exchangeName: exchangeName}
	go p.watch(ch.NotifyClose(make(chan *amqp.Error, 1)))
	return p, nil
}

// watch drops the channel once the broker closes it, so Publish fails fast
// with amqp.ErrClosed instead of blocking on a dead channel.
func (p *publisher) watch(closed <-chan *amqp.Error) {
	<-closed
	p.mu.Lock()
	p.channel = nil
	p.mu.Unlock()
}

func (p *publisher) Publish(ctx context.Context, routingKey string, event any) error {
	msg, err := newPublishing(routingKey, event, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return amqp.ErrClosed
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.channel.PublishWithContext(ctx,
		p.exchangeName,
		routingKey,
		false, // mandatory
		false, // immediate
		msg,
	)
}

const publishTimeout = 5 * time.Second

// newPublishing encodes event as a persistent JSON message typed by its routing key.
func newPublishing(routingKey string, event any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		Type:         routingKey,
		MessageId:    uuid.NewString(),
		Timestamp:    now,
		DeliveryMode: amqp.Persistent,
	}, nil
}

func (p *publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

type noopPublisher struct {
	log *zap.Logger
}

// NewNoopPublisher returns a publisher that drops events, logging each at debug level.
func NewNoopPublisher(log *zap.Logger) Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &noopPublisher{log: log}
}

func (n *noopPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	n.log.Debug("rabbitmq not configured; dropping event", zap.String("routing_key", routingKey))
	return nil
}

func (n *noopPublisher) Close() error { return nil }

// Connect returns a real publisher, or a noop one when amqpURL is empty or unreachable.
func Connect(log *zap.Logger, amqpURL, exchangeName string) Publisher {
	if amqpURL == "" {
		log.Warn("AMQP_URL not set; publishing disabled", zap.String("exchange", exchangeName))
		return NewNoopPublisher(log)
	}
	pub, err := NewPublisher(amqpURL, exchangeName)
	if err != nil {
		log.Warn("failed to initialize RabbitMQ publisher", zap.String("exchange", exchangeName), zap.Error(err))
		return NewNoopPublisher(log)
	}
	return pub
}
