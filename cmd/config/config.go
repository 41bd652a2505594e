package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const EnvProduction = "production"

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Storage     StorageConfig
	Auth        AuthConfig
	OTP         OTPConfig
	RateLimit   RateLimitConfig
	Redis       RedisConfig
	RabbitMQ    RabbitMQConfig
	Email       EmailConfig
	SMS         SMSConfig
	Chat        ChatConfig
	Recommend   RecommendConfig
	Internal    InternalConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// peers allowed to set X-Forwarded-For, as IPs or CIDR ranges
	TrustedProxies []string
}

type StorageConfig struct {
	DataDir string
}

type AuthConfig struct {
	JWTSecret     string
	JWTExpiration time.Duration
}

type OTPConfig struct {
	TTL         time.Duration
	MaxAttempts int
}

type RateLimitConfig struct {
	Enabled bool
	Window  time.Duration
	Max     int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type RabbitMQConfig struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	// mailer pacing
	SendInterval time.Duration
	SendBurst    int
}

type SMSConfig struct {
	Fast2SMSAPIKey    string
	TextBeltAPIKey    string
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type RecommendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type InternalConfig struct {
	APIKey string
}

// Load reads configuration from the environment, after loading an optional .env file
func Load() *Config {
	_ = godotenv.Load()

	env := getEnv("ENVIRONMENT", "development")
	isProd := env == EnvProduction

	return &Config{
		Environment: env,
		LogLevel:    getEnv("LOG_LEVEL", ""),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "5000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),

			TrustedProxies: getList("TRUSTED_PROXIES"),
		},
		Storage: StorageConfig{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			JWTExpiration: getDuration("JWT_EXPIRATION", 7*24*time.Hour),
		},
		OTP: OTPConfig{
			TTL:         getDuration("OTP_TTL", 5*time.Minute),
			MaxAttempts: getInt("OTP_MAX_ATTEMPTS", 3),
		},
		RateLimit: RateLimitConfig{
			// relaxed outside production unless explicitly turned on
			Enabled: getBool("RATE_LIMIT_ENABLED", isProd),
			Window:  getDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			Max:     getInt("RATE_LIMIT_MAX", 10),
		},
		Redis: RedisConfig{
			Enabled:  getBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		RabbitMQ: RabbitMQConfig{
			Enabled:  getBool("RABBITMQ_ENABLED", false),
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getInt("RABBITMQ_PORT", 5672),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
		},
		Email: EmailConfig{
			Host:     getEnv("EMAIL_HOST", "smtp.gmail.com"),
			Port:     getInt("EMAIL_PORT", 587),
			User:     getEnv("EMAIL_USER", ""),
			Password: getEnv("EMAIL_PASS", ""),
			From:     getEnv("EMAIL_FROM", getEnv("EMAIL_USER", "")),

			SendInterval: getDuration("EMAIL_SEND_INTERVAL", time.Second),
			SendBurst:    getInt("EMAIL_SEND_BURST", 5),
		},
		SMS: SMSConfig{
			Fast2SMSAPIKey:    getEnv("FAST2SMS_API_KEY", ""),
			TextBeltAPIKey:    getEnv("TEXTBELT_API_KEY", ""),
			TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
			TwilioPhoneNumber: getEnv("TWILIO_PHONE_NUMBER", ""),
		},
		Chat: ChatConfig{
			APIKey:  getEnv("PERPLEXITY_API_KEY", ""),
			BaseURL: getEnv("CHAT_API_URL", "https://api.perplexity.ai"),
			Model:   getEnv("CHAT_MODEL", "sonar"),
			Timeout: getDuration("CHAT_TIMEOUT", 30*time.Second),
		},
		Recommend: RecommendConfig{
			BaseURL: getEnv("RECOMMEND_URL", "http://localhost:8000"),
			Timeout: getDuration("RECOMMEND_TIMEOUT", 10*time.Second),
		},
		Internal: InternalConfig{
			APIKey: getEnv("INTERNAL_API_KEY", ""),
		},
	}
}

// Validate reports settings the server cannot start without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OTP.MaxAttempts <= 0 {
		return fmt.Errorf("OTP_MAX_ATTEMPTS must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_MAX and RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

func (c *Config) GetAMQPURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

// getList splits a comma-separated value, dropping empty items
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}
