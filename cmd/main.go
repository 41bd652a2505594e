package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	authapp "github.com/muhammadheryan/internmatch/application/auth"
	chatapp "github.com/muhammadheryan/internmatch/application/chat"
	credentialapp "github.com/muhammadheryan/internmatch/application/credential"
	otpapp "github.com/muhammadheryan/internmatch/application/otp"
	"github.com/muhammadheryan/internmatch/application/ratelimit"
	recommendapp "github.com/muhammadheryan/internmatch/application/recommend"
	userapp "github.com/muhammadheryan/internmatch/application/user"
	"github.com/muhammadheryan/internmatch/cmd/config"
	redisclient "github.com/muhammadheryan/internmatch/cmd/redis"
	_ "github.com/muhammadheryan/internmatch/docs"
	credentialRepo "github.com/muhammadheryan/internmatch/repository/credential"
	otpRepo "github.com/muhammadheryan/internmatch/repository/otp"
	redisRepo "github.com/muhammadheryan/internmatch/repository/redis"
	userRepo "github.com/muhammadheryan/internmatch/repository/user"
	"github.com/muhammadheryan/internmatch/thirdparty/notifier"
	"github.com/muhammadheryan/internmatch/thirdparty/perplexity"
	"github.com/muhammadheryan/internmatch/thirdparty/rabbitmq"
	"github.com/muhammadheryan/internmatch/thirdparty/recommender"
	"github.com/muhammadheryan/internmatch/transport"
	"github.com/muhammadheryan/internmatch/utils/logger"
	validatorx "github.com/muhammadheryan/internmatch/utils/validator"
	"go.uber.org/zap"
)

// @title INTERNMATCH API
// @version 1.0
// @description InternMatch auth, profile and assistant API
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @securityDefinitions.apikey InternalKey
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		// fallback to standard log if zap init fails
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	validatorx.Init()

	// Initialize repositories
	CredentialRepo, err := credentialRepo.NewCredentialRepository(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal("err init credential store", zap.Error(err))
	}
	UserRepo, err := userRepo.NewUserRepository(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal("err init user store", zap.Error(err))
	}
	OTPRepo, err := otpRepo.NewOTPRepository(cfg.Storage.DataDir)
	if err != nil {
		logger.Fatal("err init otp store", zap.Error(err))
	}

	// OTP delivery strategies, tried in order
	chain, closeChain := newNotifierChain(cfg)
	defer closeChain()

	// Initialize application layers
	CredentialApp := credentialapp.NewCredentialApp(CredentialRepo)
	OTPApp := otpapp.NewOTPApp(OTPRepo, chain, otpapp.Config{
		TTL:         cfg.OTP.TTL,
		MaxAttempts: cfg.OTP.MaxAttempts,
	})
	Tokens := authapp.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration)
	AuthApp := authapp.NewAuthApp(CredentialApp, OTPApp, UserRepo, Tokens)
	UserApp := userapp.NewUserApp(UserRepo)

	var chatClient perplexity.Client
	if cfg.Chat.APIKey != "" {
		chatClient = perplexity.NewClient(cfg.Chat.APIKey, cfg.Chat.BaseURL, cfg.Chat.Timeout)
	} else {
		logger.Warn("PERPLEXITY_API_KEY not set, /api/chat will fail")
	}
	ChatApp := chatapp.NewChatApp(chatClient, cfg.Chat.Model)
	RecommendApp := recommendapp.NewRecommendApp(recommender.NewClient(cfg.Recommend.BaseURL, cfg.Recommend.Timeout))

	limiter, closeLimiter := newLimiter(cfg)
	defer closeLimiter()

	if cfg.Internal.APIKey == "" {
		logger.Warn("INTERNAL_API_KEY not set, /internal routes are disabled")
	}

	trusted, err := transport.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		logger.Fatal("err parse TRUSTED_PROXIES", zap.Error(err))
	}

	httpTransport := transport.NewTransport(&transport.RestHandler{
		AuthApp:      AuthApp,
		UserApp:      UserApp,
		ChatApp:      ChatApp,
		RecommendApp: RecommendApp,
	}, transport.Options{
		Limiter:        limiter,
		InternalAPIKey: cfg.Internal.APIKey,
		TrustedProxies: trusted,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("err server shutdown", zap.Error(err))
	}
}

// newNotifierChain installs the queue, SMTP and SMS strategies that are
// configured. The console fallback only exists outside production.
func newNotifierChain(cfg *config.Config) (*notifier.Chain, func()) {
	chain := notifier.NewChain()
	closeFn := func() {}

	if cfg.RabbitMQ.Enabled {
		publisher, err := rabbitmq.NewPublisher(cfg.GetAMQPURL())
		if err != nil {
			logger.Error("err connect rabbitmq, otp mail queue disabled", zap.Error(err))
		} else {
			chain.Add(publisher)
			closeFn = func() {
				_ = publisher.Close()
			}
		}
	}

	email := notifier.NewEmail(notifier.EmailConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		User:     cfg.Email.User,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
	})
	if email.Configured() {
		chain.Add(email)
	} else {
		logger.Warn("EMAIL_USER not set, otp email delivery disabled")
	}

	if cfg.SMS.Fast2SMSAPIKey != "" {
		chain.Add(notifier.NewFast2SMS(cfg.SMS.Fast2SMSAPIKey, ""))
	}
	chain.Add(notifier.NewTextBelt(cfg.SMS.TextBeltAPIKey, ""))
	chain.Add(notifier.NewTwilio(notifier.TwilioConfig{
		AccountSID:  cfg.SMS.TwilioAccountSID,
		AuthToken:   cfg.SMS.TwilioAuthToken,
		PhoneNumber: cfg.SMS.TwilioPhoneNumber,
	}))

	if !cfg.IsProduction() {
		chain.Add(notifier.NewConsole())
	}

	logger.Info("otp notifier chain ready", zap.Int("strategies", chain.Len()))
	return chain, closeFn
}

// newLimiter returns nil when rate limiting is off. Redis backs the limiter
// when enabled and reachable, otherwise each instance keeps its own buckets.
func newLimiter(cfg *config.Config) (ratelimit.Limiter, func()) {
	if !cfg.RateLimit.Enabled {
		logger.Info("rate limiting disabled")
		return nil, func() {}
	}

	limitCfg := ratelimit.Config{Window: cfg.RateLimit.Window, Max: cfg.RateLimit.Max}
	if cfg.Redis.Enabled {
		client, err := redisclient.New(cfg)
		if err == nil {
			logger.Info("rate limiting with redis", zap.String("addr", cfg.GetRedisAddr()))
			return ratelimit.NewRedisLimiter(redisRepo.NewRepository(client), limitCfg), func() {
				_ = client.Close()
			}
		}
		logger.Error("err connect redis, falling back to in-memory rate limiting", zap.Error(err))
	}

	logger.Info("rate limiting in memory")
	return ratelimit.NewMemoryLimiter(limitCfg), func() {}
}
