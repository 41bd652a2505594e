package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammadheryan/internmatch/utils/logger"
	"go.uber.org/zap"
)

// ErrNotApplicable is returned by a notifier that cannot handle the message,
// e.g. an SMS provider asked to deliver a message without a phone number.
var ErrNotApplicable = errors.New("notifier not applicable")

// ErrNoDelivery is returned by Chain.Notify when no notifier accepted the message.
var ErrNoDelivery = errors.New("no notifier delivered the message")

// ChannelConsole names the fallback that only writes the code to the server log
const ChannelConsole = "console"

// Message is a one-time passcode to hand to the user
type Message struct {
	Email string        `json:"email"`
	Phone string        `json:"phone,omitempty"`
	Code  string        `json:"code"`
	TTL   time.Duration `json:"ttl"`
}

// Text is the plain body used by SMS providers and the console fallback
func (m Message) Text() string {
	return fmt.Sprintf("Your InternMatch verification code is: %s. This code expires in %d minutes.", m.Code, ttlMinutes(m.TTL))
}

type Notifier interface {
	Name() string
	Notify(ctx context.Context, msg Message) error
}

// Chain tries notifiers in order and stops at the first success.
type Chain struct {
	notifiers []Notifier
}

func NewChain(notifiers ...Notifier) *Chain {
	return &Chain{notifiers: notifiers}
}

// Add appends a notifier to the end of the chain
func (c *Chain) Add(n Notifier) {
	c.notifiers = append(c.notifiers, n)
}

func (c *Chain) Len() int {
	return len(c.notifiers)
}

// Notify returns the name of the notifier that accepted msg.
func (c *Chain) Notify(ctx context.Context, msg Message) (string, error) {
	for _, n := range c.notifiers {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		err := n.Notify(ctx, msg)
		if err == nil {
			return n.Name(), nil
		}
		if errors.Is(err, ErrNotApplicable) {
			continue
		}
		logger.Warn("[Notifier.Chain] delivery failed",
			zap.String("notifier", n.Name()),
			zap.String("error", err.Error()))
	}
	return "", ErrNoDelivery
}

func ttlMinutes(ttl time.Duration) int {
	m := int(ttl / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}
