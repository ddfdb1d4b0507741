package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, ":9090", cfg.GRPCAddr())
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "require", cfg.DB.SSLMode)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, time.Second, cfg.Kafka.OutboxInterval)
	assert.Equal(t, 100, cfg.Kafka.OutboxBatchSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "8181")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("LOCK_TTL", "3s")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("GRPC_REFLECTION", "true")
	t.Setenv("OUTBOX_INTERVAL", "250ms")
	t.Setenv("OUTBOX_BATCH_SIZE", "20")

	cfg := Load()

	assert.Equal(t, ":8181", cfg.HTTPAddr())
	assert.Equal(t, "secret", cfg.DB.Password)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 3*time.Second, cfg.Redis.LockTTL)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.True(t, cfg.GRPCReflection)
	assert.Equal(t, 250*time.Millisecond, cfg.Kafka.OutboxInterval)
	assert.Equal(t, 20, cfg.Kafka.OutboxBatchSize)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			DB:    DatabaseConfig{Password: "pw"},
			Kafka: KafkaConfig{Brokers: []string{"k:9092"}, OutboxInterval: time.Second, OutboxBatchSize: 10},
			Redis: RedisConfig{LockTTL: time.Second},
			Auth:  AuthConfig{JWTSecret: "s"},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{"missing db password", func(c *Config) { c.DB.Password = "" }, "DB_PASSWORD"},
		{"missing jwt material", func(c *Config) { c.Auth.JWTSecret = "" }, "JWT_SECRET"},
		{"no brokers", func(c *Config) { c.Kafka.Brokers = nil }, "KAFKA_BROKERS"},
		{"half tls", func(c *Config) { c.TLS.CertFile = "cert.pem" }, "TLS_CERT_FILE"},
		{"zero lock ttl", func(c *Config) { c.Redis.LockTTL = 0 }, "LOCK_TTL"},
		{"zero outbox interval", func(c *Config) { c.Kafka.OutboxInterval = 0 }, "OUTBOX_INTERVAL"},
		{"zero outbox batch", func(c *Config) { c.Kafka.OutboxBatchSize = 0 }, "OUTBOX_BATCH_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}

	t.Run("public key alone is enough", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.JWTSecret = ""
		cfg.Auth.JWTPublicKey = "/etc/keys/jwt.pub"
		assert.NoError(t, cfg.Validate())
	})
}
