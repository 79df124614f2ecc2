package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

type HandlerFunc func(ctx context.Context, b domain.BookingConfirmed) error

type Consumer struct {
	url        string
	queue      string
	logger     *slog.Logger
	handle     HandlerFunc
	RetryDelay time.Duration
}

func NewConsumer(url, queue string, logger *slog.Logger, handle HandlerFunc) *Consumer {
	return &Consumer{
		url:        url,
		queue:      queue,
		logger:     logger,
		handle:     handle,
		RetryDelay: 5 * time.Second,
	}
}

// Run consumes until ctx is cancelled, reconnecting after broker failures.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		err := c.consume(ctx)
		if ctx.Err() != nil {
			return nil
		}

		c.logger.Error("consumer disconnected", "error", err, "retry_in", c.RetryDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.RetryDelay):
		}
	}
}

func (c *Consumer) consume(ctx context.Context) error {
	conn, err := amqp.Dial(c.url)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := declare(ch, c.queue); err != nil {
		return err
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return err
	}

	deliveries, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))

	c.logger.Info("consuming", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr, ok := <-closed:
			if ok && amqpErr != nil {
				return amqpErr
			}
			return errors.New("connection closed")
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.process(ctx, d)
		}
	}
}

// process acks handled messages. Undecodable messages are dropped; failed
// ones are requeued once.
func (c *Consumer) process(ctx context.Context, d amqp.Delivery) {
	logger := c.logger.With("message_id", d.MessageId)

	var b domain.BookingConfirmed
	if err := json.Unmarshal(d.Body, &b); err != nil {
		logger.Error("dropping malformed message", "error", err)
		if err := d.Nack(false, false); err != nil {
			logger.Error("failed to nack", "error", err)
		}
		return
	}

	if err := c.handle(ctx, b); err != nil {
		requeue := !d.Redelivered
		logger.Error("failed to handle booking", "error", err, "requeue", requeue)
		if err := d.Nack(false, requeue); err != nil {
			logger.Error("failed to nack", "error", err)
		}
		return
	}

	if err := d.Ack(false); err != nil {
		logger.Error("failed to ack", "error", err)
		return
	}

	logger.Info("ticket delivered", "reservation_id", b.ReservationID)
}
