package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	"github.com/muhammadheryan/internmatch/thirdparty/notifier"
	"github.com/muhammadheryan/internmatch/utils/logger"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Handler delivers one queued OTP. A returned error requeues the message.
type Handler func(ctx context.Context, msg notifier.Message) error

type Consumer struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	handler Handler
	now     func() time.Time
}

func NewConsumer(url string, handler Handler) (*Consumer, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := declareTopology(channel); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &Consumer{
		conn:    conn,
		channel: channel,
		handler: handler,
		now:     time.Now,
	}, nil
}

func (c *Consumer) Start(ctx context.Context) error {
	// Set QoS to 1 - process one message at a time
	err := c.channel.Qos(1, 0, false)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		OTPQueue,
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
					return
				}
				c.handle(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *Consumer) handle(ctx context.Context, msg amqp091.Delivery) {
	var payload OTPDeliveryMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil {
		logger.Error("[Consumer.handle] err json.Unmarshal", zap.String("error", err.Error()))
		msg.Ack(false)
		return
	}

	ttl := payload.ExpiresAt.Sub(c.now())
	if ttl <= 0 {
		logger.Warn("[Consumer.handle] dropping expired otp delivery", zap.String("email", payload.Email))
		msg.Ack(false)
		return
	}

	err := c.handler(ctx, notifier.Message{
		Email: payload.Email,
		Phone: payload.Phone,
		Code:  payload.Code,
		TTL:   ttl,
	})
	if err != nil {
		logger.Error("[Consumer.handle] err handler", zap.String("email", payload.Email), zap.String("error", err.Error()))
		// Negative ack to requeue
		msg.Nack(false, true)
		return
	}

	msg.Ack(false)
	logger.Info("[Consumer.handle] otp delivered", zap.String("email", payload.Email))
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
