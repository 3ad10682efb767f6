package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/sony/gobreaker"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, topic, key string, v any) error
}

type BreakerConfig struct {
	MaxFailures uint32        `envconfig:"KAFKA_BREAKER_MAX_FAILURES" default:"5"`
	OpenTimeout time.Duration `envconfig:"KAFKA_BREAKER_OPEN_TIMEOUT" default:"30s"`
}

// NewEnqueuer sends JSON messages synchronously; once MaxFailures consecutive sends fail the
// breaker opens and Enqueue fails fast with gobreaker.ErrOpenState until OpenTimeout passes.
func NewEnqueuer(producer sarama.SyncProducer, cfg BreakerConfig) Enqueuer {
	return &enqueuerImpl{
		producer: producer,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "kafka-producer",
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.MaxFailures
			},
		}),
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	cb       *gobreaker.CircuitBreaker
}

func (q *enqueuerImpl) Enqueue(ctx context.Context, topic, key string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
	}
	_, err = q.cb.Execute(func() (interface{}, error) {
		_, _, err := q.producer.SendMessage(msg)
		return nil, err
	})
	return err
}

// NopEnqueuer drops messages; used when no brokers are configured.
type NopEnqueuer struct{}

func (NopEnqueuer) Enqueue(context.Context, string, string, any) error { return nil }
