package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

type KafkaConfig struct {
	Brokers []string
	// OutboxInterval is how often the relay polls an empty outbox.
	OutboxInterval  time.Duration
	OutboxBatchSize int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

type AuthConfig struct {
	JWTSecret    string
	JWTPublicKey string
	Issuer       string
}

type LogConfig struct {
	Level  string
	Format string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	SampleRatio  float64
}

type TLSConfig struct {
	CertFile string
	KeyFile  string
}

type Config struct {
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
	RateLimitRPS   float64
	RateLimitBurst int
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Auth           AuthConfig
	Log            LogConfig
	Telemetry      TelemetryConfig
	TLS            TLSConfig
	ServiceName    string
}

var defaults = map[string]any{
	"GRPC_PORT":         9090,
	"HTTP_PORT":         8080,
	"GRPC_REFLECTION":   false,
	"RATE_LIMIT_RPS":    50.0,
	"RATE_LIMIT_BURST":  100,
	"DB_HOST":           "localhost",
	"DB_PORT":           5432,
	"DB_USER":           "bib",
	"DB_PASSWORD":       "",
	"DB_NAME":           "bib_loanrisk",
	"DB_SSLMODE":        "require",
	"DB_MAX_CONNS":      10,
	"KAFKA_BROKERS":     "localhost:9092",
	"OUTBOX_INTERVAL":   "1s",
	"OUTBOX_BATCH_SIZE": 100,
	"REDIS_ADDR":        "localhost:6379",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"LOCK_TTL":          "10s",
	"JWT_SECRET":        "",
	"JWT_PUBLIC_KEY":    "",
	"JWT_ISSUER":        "bib",
	"LOG_LEVEL":         "info",
	"LOG_FORMAT":        "json",
	"OTEL_ENDPOINT":     "",
	"OTEL_SAMPLE_RATIO": 1.0,
	"TLS_CERT_FILE":     "",
	"TLS_KEY_FILE":      "",
}

// Load reads configuration from the environment, falling back to defaults.
func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return Config{
		GRPCPort:       v.GetInt("GRPC_PORT"),
		HTTPPort:       v.GetInt("HTTP_PORT"),
		GRPCReflection: v.GetBool("GRPC_REFLECTION"),
		RateLimitRPS:   v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst: v.GetInt("RATE_LIMIT_BURST"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Kafka: KafkaConfig{
			Brokers:         splitList(v.GetString("KAFKA_BROKERS")),
			OutboxInterval:  v.GetDuration("OUTBOX_INTERVAL"),
			OutboxBatchSize: v.GetInt("OUTBOX_BATCH_SIZE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			LockTTL:  v.GetDuration("LOCK_TTL"),
		},
		Auth: AuthConfig{
			JWTSecret:    v.GetString("JWT_SECRET"),
			JWTPublicKey: v.GetString("JWT_PUBLIC_KEY"),
			Issuer:       v.GetString("JWT_ISSUER"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: v.GetString("OTEL_ENDPOINT"),
			SampleRatio:  v.GetFloat64("OTEL_SAMPLE_RATIO"),
		},
		TLS: TLSConfig{
			CertFile: v.GetString("TLS_CERT_FILE"),
			KeyFile:  v.GetString("TLS_KEY_FILE"),
		},
		ServiceName: "loanrisk-service",
	}
}

// Validate reports missing secrets and inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.Auth.JWTSecret == "" && c.Auth.JWTPublicKey == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or JWT_PUBLIC_KEY is required"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.Kafka.OutboxInterval <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_INTERVAL must be positive, got %s", c.Kafka.OutboxInterval))
	}
	if c.Kafka.OutboxBatchSize <= 0 {
		errs = append(errs, fmt.Errorf("OUTBOX_BATCH_SIZE must be positive, got %d", c.Kafka.OutboxBatchSize))
	}
	if c.Redis.LockTTL <= 0 {
		errs = append(errs, fmt.Errorf("LOCK_TTL must be positive, got %s", c.Redis.LockTTL))
	}
	return errors.Join(errs...)
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
