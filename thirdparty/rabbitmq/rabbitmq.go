// Package rabbitmq schedules deletion of replaced profile pictures through a
// delayed exchange (rabbitmq_delayed_message_exchange plugin).
package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	cleanupExchange   = "picture_cleanup_exchange"
	cleanupQueue      = "picture_cleanup_queue"
	cleanupRoutingKey = "picture_cleanup"
)

// PictureCleanupMessage names an object that is no longer any profile's
// picture.
type PictureCleanupMessage struct {
	UserID     uint64    `json:"user_id"`
	Key        string    `json:"key"`
	ReplacedAt time.Time `json:"replaced_at"`
}

// CleanupScheduler delivers msg to the consumer once delay has passed.
type CleanupScheduler interface {
	SchedulePictureCleanup(ctx context.Context, msg PictureCleanupMessage, delay time.Duration) error
}

func dial(host string, port int, user, password string) (*amqp091.Connection, *amqp091.Channel, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return nil, nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	if err := declare(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, nil, err
	}
	return conn, channel, nil
}

func declare(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		cleanupExchange,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp091.Table{"x-delayed-type": "direct"},
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := channel.QueueDeclare(cleanupQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	if err := channel.QueueBind(cleanupQueue, cleanupRoutingKey, cleanupExchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}
