package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/muhammadheryan/internmatch/thirdparty/notifier"
	"github.com/rabbitmq/amqp091-go"
)

const (
	OTPExchange   = "otp_delivery_exchange"
	OTPQueue      = "otp_delivery_queue"
	OTPRoutingKey = "otp_delivery"
)

// OTPDeliveryMessage is the queued payload picked up by the mailer worker
type OTPDeliveryMessage struct {
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

type publishChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher hands OTP deliveries to RabbitMQ. It satisfies notifier.Notifier.
type Publisher struct {
	conn    *amqp091.Connection
	channel publishChannel
	now     func() time.Time
}

func NewPublisher(url string) (*Publisher, error) {
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

	return &Publisher{conn: conn, channel: channel, now: time.Now}, nil
}

func declareTopology(channel *amqp091.Channel) error {
	err := channel.ExchangeDeclare(
		OTPExchange, // name
		"direct",    // type
		true,        // durable
		false,       // auto-delete
		false,       // internal
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return err
	}

	_, err = channel.QueueDeclare(
		OTPQueue, // name
		true,     // durable
		false,    // auto-delete
		false,    // exclusive
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		return err
	}

	return channel.QueueBind(
		OTPQueue,      // queue name
		OTPRoutingKey, // routing key
		OTPExchange,   // exchange
		false,         // no-wait
		nil,           // arguments
	)
}

func (p *Publisher) Name() string {
	return "queue"
}

func (p *Publisher) Notify(ctx context.Context, msg notifier.Message) error {
	if msg.Email == "" {
		return notifier.ErrNotApplicable
	}

	expiresAt := p.now().Add(msg.TTL)
	body, err := json.Marshal(OTPDeliveryMessage{
		Email:     msg.Email,
		Phone:     msg.Phone,
		Code:      msg.Code,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return err
	}

	pub := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    p.now(),
		Body:         body,
	}
	// the broker drops codes nobody could use anymore
	if msg.TTL > 0 {
		pub.Expiration = strconv.FormatInt(msg.TTL.Milliseconds(), 10)
	}

	if err := p.channel.PublishWithContext(ctx, OTPExchange, OTPRoutingKey, false, false, pub); err != nil {
		return fmt.Errorf("publish otp delivery: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
