package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/bibbank/loanrisk/pkg/events"
	"github.com/bibbank/loanrisk/pkg/kafka"
)

// MessageProducer is the subset of kafka.Producer the publisher needs.
type MessageProducer interface {
	Publish(ctx context.Context, topic string, messages ...kafka.Message) error
}

// BreakerSettings tunes the circuit breaker around the producer.
type BreakerSettings struct {
	// MinRequests is the number of requests in a window before the failure
	// ratio is considered. Zero means 5.
	MinRequests uint32
	// FailureRatio trips the breaker. Zero means 0.5.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open. Zero means 30s.
	OpenTimeout time.Duration
}

// KafkaEventPublisher writes outbox entries to Kafka. Events go to the topic
// named by their type prefix ("loanrisk.loan.applied" -> "loanrisk.loan"),
// keyed by aggregate ID so one applicant's events stay ordered within a
// partition.
type KafkaEventPublisher struct {
	producer MessageProducer
	breaker  *gobreaker.CircuitBreaker
	logger   *slog.Logger
}

// NewKafkaEventPublisher wraps producer in a circuit breaker.
func NewKafkaEventPublisher(producer MessageProducer, settings BreakerSettings, logger *slog.Logger) *KafkaEventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.MinRequests == 0 {
		settings.MinRequests = 5
	}
	if settings.FailureRatio == 0 {
		settings.FailureRatio = 0.5
	}
	if settings.OpenTimeout == 0 {
		settings.OpenTimeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "kafka-event-publisher",
		Timeout: settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= settings.MinRequests &&
				float64(counts.TotalFailures)/float64(counts.Requests) >= settings.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &KafkaEventPublisher{producer: producer, breaker: breaker, logger: logger}
}

// Publish sends outbox entries. The payload is the stored event JSON.
func (p *KafkaEventPublisher) Publish(ctx context.Context, entries ...events.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var (
		topics  []string
		batches = make(map[string][]kafka.Message)
	)
	for _, e := range entries {
		topic := TopicFor(e.EventType)
		if _, ok := batches[topic]; !ok {
			topics = append(topics, topic)
		}
		batches[topic] = append(batches[topic], kafka.Message{
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: map[string]string{
				"event_id":   e.ID,
				"event_type": e.EventType,
			},
		})
	}

	_, err := p.breaker.Execute(func() (any, error) {
		for _, topic := range topics {
			if err := p.producer.Publish(ctx, topic, batches[topic]...); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("publish %d events: %w", len(entries), err)
	}

	for _, e := range entries {
		p.logger.Debug("published domain event",
			"event_type", e.EventType,
			"aggregate_id", e.AggregateID,
			"topic", TopicFor(e.EventType),
		)
	}
	return nil
}

// TopicFor maps an event type to its Kafka topic.
func TopicFor(eventType string) string {
	if i := strings.LastIndexByte(eventType, '.'); i > 0 {
		return eventType[:i]
	}
	return eventType
}
