package notifier

import (
	"context"

	"github.com/muhammadheryan/internmatch/utils/logger"
	"go.uber.org/zap"
)

// Console writes the code to the server log. It never fails and is only
// installed outside production.
type Console struct{}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Name() string {
	return ChannelConsole
}

func (c *Console) Notify(_ context.Context, msg Message) error {
	logger.Info("[Notifier.Console] OTP issued",
		zap.String("email", msg.Email),
		zap.String("phone", msg.Phone),
		zap.String("otp", msg.Code))
	return nil
}
