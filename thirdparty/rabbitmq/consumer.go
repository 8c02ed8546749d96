package rabbitmq

import (
	"context"
	"encoding/json"

	"github.com/muhammadheryan/crm/utils/logger"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler processes one cleanup. A returned error requeues the message once.
type Handler func(ctx context.Context, msg PictureCleanupMessage) error

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	handler Handler
}

func NewConsumer(host string, port int, user, password string, handler Handler) (*Consumer, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}
	return &Consumer{conn: conn, channel: channel, handler: handler}, nil
}

// Start consumes in the background until ctx is done or the channel closes.
func (c *Consumer) Start(ctx context.Context) error {
	// process one message at a time
	if err := c.channel.Qos(1, 0, false); err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		cleanupQueue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Warn("[PictureCleanup] delivery channel closed")
					return
				}
				c.handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer) handle(ctx context.Context, d amqp091.Delivery) {
	var msg PictureCleanupMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		logger.Error("[PictureCleanup] err unmarshal message", zap.String("error", err.Error()))
		_ = d.Ack(false)
		return
	}

	if err := c.handler(ctx, msg); err != nil {
		logger.Error("[PictureCleanup] err handle",
			zap.String("error", err.Error()),
			zap.String("key", msg.Key),
			zap.Bool("redelivered", d.Redelivered))
		// one retry, then drop
		_ = d.Nack(false, !d.Redelivered)
		return
	}

	_ = d.Ack(false)
	logger.Info("[PictureCleanup] object deleted", zap.String("key", msg.Key), zap.Uint64("user_id", msg.UserID))
}

func (c *Consumer) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}
