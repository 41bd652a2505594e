package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadheryan/internmatch/cmd/config"
	"github.com/muhammadheryan/internmatch/thirdparty/notifier"
	"github.com/muhammadheryan/internmatch/thirdparty/rabbitmq"
	"github.com/muhammadheryan/internmatch/utils/logger"
	"go.uber.org/zap"
)

const (
	sendRetries = 3
	sendBackoff = 2 * time.Second
)

// mailer consumes queued OTP deliveries and sends them over SMTP.
func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		panic(err)
	}
	defer logger.Close()

	email := notifier.NewEmail(notifier.EmailConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		User:     cfg.Email.User,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})
	if !email.Configured() {
		logger.Fatal("EMAIL_USER is required for the mailer")
	}
	throttled := notifier.NewThrottle(email, cfg.Email.SendInterval, cfg.Email.SendBurst)
	sender := notifier.NewRetry(throttled, sendRetries, sendBackoff)

	consumer, err := rabbitmq.NewConsumer(cfg.GetAMQPURL(), func(ctx context.Context, msg notifier.Message) error {
		return sender.Notify(ctx, msg)
	})
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("err start consumer", zap.Error(err))
	}
	logger.Info("Mailer waiting for otp deliveries", zap.String("queue", rabbitmq.OTPQueue))

	<-ctx.Done()
	logger.Info("Mailer stopped")
}
