package kafka

import (
	"context"
	"testing"
	"time"
)

func TestNewProducer(t *testing.T) {
	cfg := Config{
		Brokers:  []string{"localhost:9092", "localhost:9093"},
		ClientID: "loanrisk-test",
	}

	p, err := NewProducer(cfg)
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %d", len(p.brokers))
	}
	if p.brokers[0] != "localhost:9092" {
		t.Errorf("expected broker localhost:9092, got %s", p.brokers[0])
	}
	if p.writers == nil {
		t.Fatal("expected writers map to be initialized")
	}
	if len(p.writers) != 0 {
		t.Errorf("expected empty writers map, got %d entries", len(p.writers))
	}
	if p.batchTimeout != defaultBatchTimeout {
		t.Errorf("expected default batch timeout %v, got %v", defaultBatchTimeout, p.batchTimeout)
	}
	if p.transport.ClientID != "loanrisk-test" {
		t.Errorf("expected client ID to be propagated, got %q", p.transport.ClientID)
	}
}

func TestNewProducer_CustomBatchTimeout(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9092"}, BatchTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	if p.batchTimeout != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %v", p.batchTimeout)
	}
}

func TestNewProducer_TLS(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"kafka:9093"}, TLS: true})
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	if p.transport.TLS == nil {
		t.Fatal("expected TLS config on transport")
	}
}

func TestResolveSASL(t *testing.T) {
	tests := []struct {
		name      string
		mechanism string
		wantErr   bool
	}{
		{name: "empty defaults to plain", mechanism: ""},
		{name: "plain", mechanism: "PLAIN"},
		{name: "scram 256", mechanism: "SCRAM-SHA-256"},
		{name: "scram 512", mechanism: "SCRAM-SHA-512"},
		{name: "unsupported", mechanism: "GSSAPI", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := resolveSASL(Config{
				SASLMechanism: tt.mechanism,
				SASLUsername:  "user",
				SASLPassword:  "pass",
			})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if m == nil {
				t.Fatal("expected mechanism")
			}
		})
	}
}

func TestNewProducer_UnsupportedSASL(t *testing.T) {
	_, err := NewProducer(Config{SASLEnabled: true, SASLMechanism: "KERBEROS"})
	if err == nil {
		t.Fatal("expected error for unsupported SASL mechanism")
	}
}

func TestToKafkaMessages(t *testing.T) {
	msgs := toKafkaMessages([]Message{{
		Key:   []byte("applicant-123"),
		Value: []byte(`{"status":"approved"}`),
		Headers: map[string]string{
			"event_type": "loanrisk.loan.approved",
		},
	}})

	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if string(msgs[0].Key) != "applicant-123" {
		t.Errorf("key = %s", msgs[0].Key)
	}
	if len(msgs[0].Headers) != 1 || msgs[0].Headers[0].Key != "event_type" {
		t.Errorf("headers = %v", msgs[0].Headers)
	}
}

func TestPublish_NoMessagesIsNoop(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:1"}})
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	if err := p.Publish(context.Background(), "loanrisk-events"); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected no writer to be created, got %d", len(p.writers))
	}
}

func TestClose_ResetsWriters(t *testing.T) {
	p, err := NewProducer(Config{Brokers: []string{"localhost:1"}})
	if err != nil {
		t.Fatalf("NewProducer() error = %v", err)
	}
	_ = p.getOrCreateWriter("loanrisk-events")
	if len(p.writers) != 1 {
		t.Fatalf("expected one writer, got %d", len(p.writers))
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if len(p.writers) != 0 {
		t.Errorf("expected writers to be reset, got %d", len(p.writers))
	}
}
