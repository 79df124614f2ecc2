// Package config collects runtime settings from command-line flags. Flag
// defaults come from the environment, optionally loaded from a .env file.
package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             int
	Env              string
	PublicBaseURL    string
	OtelCollectorUrl string
	DB               DBConfig
	Redis            RedisConfig
	SMTP             SMTPConfig
	Stripe           StripeConfig
	AMQP             AMQPConfig
	Log              LogConfig
	Booking          BookingConfig
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessUrl    string
	FailureUrl    string
}

type AMQPConfig struct {
	URL   string
	Queue string
}

type LogConfig struct {
	Level  string
	Format string
	File   string
}

type BookingConfig struct {
	HoldTTL    time.Duration
	ServiceFee float64
	Currency   string
}

// Register binds every setting to fs and returns the Config that fs.Parse
// fills in. Callers may add their own flags to fs before parsing.
func Register(fs *flag.FlagSet) *Config {
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	var cfg Config

	fs.IntVar(&cfg.Port, "port", getEnvAsInt("PORT", 3000), "server port")
	fs.StringVar(&cfg.Env, "env", getEnv("ENV", "dev"), "Environment (dev|staging|prod)")
	fs.StringVar(&cfg.PublicBaseURL, "public-base-url", getEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "Base URL used in links to uploaded assets")
	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", getEnv("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", getEnv("DB_DSN", ""), "PostgreSQL DSN")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", getEnvAsInt("DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", getEnvAsDuration("DB_MAX_IDLE_TIME", 15*time.Minute), "PostgreSQL max idle time for connections")

	fs.StringVar(&cfg.Redis.URL, "redis-url", getEnv("REDIS_URL", ""), "Redis address")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", getEnvAsInt("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", getEnvAsInt("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", getEnvAsDuration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")

	fs.StringVar(&cfg.SMTP.Host, "smtp-host", getEnv("SMTP_HOST", "sandbox.smtp.mailtrap.io"), "SMTP host")
	fs.IntVar(&cfg.SMTP.Port, "smtp-port", getEnvAsInt("SMTP_PORT", 2525), "SMTP port")
	fs.StringVar(&cfg.SMTP.Username, "smtp-username", getEnv("SMTP_USERNAME", ""), "SMTP username")
	fs.StringVar(&cfg.SMTP.Password, "smtp-password", getEnv("SMTP_PASSWORD", ""), "SMTP password")
	fs.StringVar(&cfg.SMTP.Sender, "smtp-sender", getEnv("SMTP_SENDER", "Bargoglio <entradas@bargoglio.com>"), "SMTP sender")

	fs.StringVar(&cfg.Stripe.SecretKey, "stripe-key", getEnv("STRIPE_KEY", ""), "Stripe secret key")
	fs.StringVar(&cfg.Stripe.WebhookSecret, "stripe-webhook-secret", getEnv("STRIPE_WEBHOOK_SECRET", ""), "Stripe webhook secret")
	fs.StringVar(&cfg.Stripe.SuccessUrl, "stripe-success-url", getEnv("STRIPE_SUCCESS_URL", "https://example.com/checkout/success"), "Stripe payment success page")
	fs.StringVar(&cfg.Stripe.FailureUrl, "stripe-failure-url", getEnv("STRIPE_FAILURE_URL", "https://example.com/checkout/failure"), "Stripe payment failure page")

	fs.StringVar(&cfg.AMQP.URL, "amqp-url", getEnv("AMQP_URL", ""), "RabbitMQ URL; tickets are sent in-process when empty")
	fs.StringVar(&cfg.AMQP.Queue, "amqp-queue", getEnv("AMQP_QUEUE", "booking.confirmed"), "Queue carrying confirmed bookings")

	fs.StringVar(&cfg.Log.Level, "log-level", getEnv("LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")
	fs.StringVar(&cfg.Log.Format, "log-format", getEnv("LOG_FORMAT", "text"), "Log format (text|json)")
	fs.StringVar(&cfg.Log.File, "log-file", getEnv("LOG_FILE", ""), "Optional log file, rotated automatically")

	fs.DurationVar(&cfg.Booking.HoldTTL, "hold-ttl", getEnvAsDuration("HOLD_TTL", 35*time.Minute), "How long a pending reservation holds its seats")
	fs.Float64Var(&cfg.Booking.ServiceFee, "service-fee", getEnvAsFloat("SERVICE_FEE", 0.08), "Service fee rate added to online bookings")
	fs.StringVar(&cfg.Booking.Currency, "currency", getEnv("CURRENCY", "ars"), "Checkout currency")

	return &cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}

	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}

	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}

	return fallback
}

// Load registers the shared settings on fs and parses args. Command
// specific flags must be added to fs beforehand.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Register(fs)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return cfg, nil
}
