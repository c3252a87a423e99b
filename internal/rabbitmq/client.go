// Package rabbitmq carries engagement events over a durable RabbitMQ queue.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/trezm/brutalist-twitter/internal/config"
	"github.com/trezm/brutalist-twitter/internal/messaging/payloads"
)

const (
	publishTimeout = 5 * time.Second
	prefetchCount  = 16
)

var errMalformedPayload = errors.New("malformed engagement payload")

// Client publishes and consumes engagement events on a single queue.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
	logger  *slog.Logger
}

// NewClient dials the broker, opens a channel and declares the queue.
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	// declaring is idempotent; durable so events survive a broker restart
	q, err := ch.QueueDeclare(
		cfg.RabbitMQ.RabbitMQQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %q: %w", cfg.RabbitMQ.RabbitMQQueueName, err)
	}

	logger.Info("connected to RabbitMQ", "queue", q.Name, "messages", q.Messages)

	return &Client{conn: conn, channel: ch, queue: q, logger: logger}, nil
}

// Close shuts the channel and then the connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}
	c.logger.Info("RabbitMQ connection closed")
	return errors.Join(errs...)
}

// PublishEngagement sends one event as a persistent JSON message.
func (c *Client) PublishEngagement(ctx context.Context, payload payloads.EngagementPayload) error {
	body, err := encodeEngagement(payload)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		"",           // default exchange
		c.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    payload.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish engagement: %w", err)
	}

	c.logger.Debug("engagement published", "queue", c.queue.Name, "kind", payload.Kind, "tweet_id", payload.TweetID)
	return nil
}

// StartConsumingEngagements registers a consumer and hands each decoded
// event to handler in a background goroutine until ctx is cancelled.
// Undecodable messages are dropped, failed ones requeued.
func (c *Client) StartConsumingEngagements(ctx context.Context, handler func(context.Context, payloads.EngagementPayload) error) error {
	if err := c.channel.Qos(prefetchCount, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := c.channel.ConsumeWithContext(
		ctx,
		c.queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register a consumer: %w", err)
	}

	c.logger.Info("consuming engagement events", "queue", c.queue.Name)

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					c.logger.Info("delivery channel closed, consumer stopped")
					return
				}
				c.deliver(ctx, msg, handler)
			case <-ctx.Done():
				c.logger.Info("consumer stopped", "reason", ctx.Err())
				return
			}
		}
	}()

	return nil
}

func (c *Client) deliver(ctx context.Context, msg amqp.Delivery, handler func(context.Context, payloads.EngagementPayload) error) {
	payload, err := decodeEngagement(msg.Body)
	if err != nil {
		c.logger.Error("dropping engagement message", "error", err, "body", string(msg.Body))
		if err := msg.Nack(false, false); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := handler(ctx, payload); err != nil {
		c.logger.Error("engagement handler failed, requeueing", "error", err, "kind", payload.Kind, "tweet_id", payload.TweetID)
		if err := msg.Nack(false, !msg.Redelivered); err != nil {
			c.logger.Error("failed to nack message", "error", err)
		}
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("failed to ack message", "error", err)
	}
}

func encodeEngagement(payload payloads.EngagementPayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal engagement: %w", err)
	}
	return body, nil
}

func decodeEngagement(body []byte) (payloads.EngagementPayload, error) {
	var payload payloads.EngagementPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errMalformedPayload, err)
	}
	if payload.Kind == "" || payload.TweetID == uuid.Nil {
		return payload, fmt.Errorf("%w: missing kind or tweet id", errMalformedPayload)
	}
	return payload, nil
}
