package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

type Publisher struct {
	conn    *amqp091.Connection
	channel publishChannel
	closer  func() error
}

func NewPublisher(host string, port int, user, password string) (*Publisher, error) {
	conn, channel, err := dial(host, port, user, password)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn, channel: channel, closer: channel.Close}, nil
}

func (p *Publisher) SchedulePictureCleanup(ctx context.Context, msg PictureCleanupMessage, delay time.Duration) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	delayMs := delay.Milliseconds()
	if delayMs < 0 {
		delayMs = 0
	}

	return p.channel.PublishWithContext(ctx,
		cleanupExchange,
		cleanupRoutingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    msg.ReplacedAt,
			Body:         body,
			Headers: amqp091.Table{
				"x-delay": delayMs,
			},
		},
	)
}

func (p *Publisher) Close() error {
	if p.closer != nil {
		p.closer()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
