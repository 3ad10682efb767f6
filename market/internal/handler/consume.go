package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Astemirdum/book-exchange/pkg/kafka"
)

type applyUserEvent func(ctx context.Context, event kafka.UserEvent) error

const (
	defaultApplyRetries = 3
	defaultApplyBackoff = 500 * time.Millisecond
)

// Consumer keeps the trader projection in sync with identity-provider user events.
type Consumer struct {
	apply   applyUserEvent
	log     *zap.Logger
	ready   chan bool
	retries int
	backoff time.Duration
}

func NewConsumer(apply applyUserEvent, log *zap.Logger) *Consumer {
	return &Consumer{
		apply:   apply,
		log:     log.Named("consumer"),
		ready:   make(chan bool),
		retries: defaultApplyRetries,
		backoff: defaultApplyBackoff,
	}
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			if err := consumer.handleWithRetry(session.Context(), message); err != nil {
				// ending the claim cancels the session; the group rejoins from the last marked offset
				consumer.log.Error("apply user event", zap.Error(err),
					zap.Int32("partition", message.Partition), zap.Int64("offset", message.Offset))
				return err
			}
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

func (consumer *Consumer) handleWithRetry(ctx context.Context, message *sarama.ConsumerMessage) error {
	for attempt := 0; ; attempt++ {
		err := consumer.handle(ctx, message)
		if err == nil || attempt >= consumer.retries {
			return err
		}
		wait := consumer.backoff << attempt
		consumer.log.Warn("apply user event, retrying", zap.Error(err),
			zap.Int64("offset", message.Offset), zap.Duration("backoff", wait))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// handle returns an error only for events worth retrying; malformed payloads are dropped.
func (consumer *Consumer) handle(ctx context.Context, message *sarama.ConsumerMessage) error {
	var event kafka.UserEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		consumer.log.Error("malformed user event", zap.Error(err), zap.ByteString("value", message.Value))
		return nil
	}
	if event.UserID == uuid.Nil {
		consumer.log.Warn("user event without user id", zap.ByteString("value", message.Value))
		return nil
	}
	if err := consumer.apply(ctx, event); err != nil {
		return err
	}
	consumer.log.Debug("user event applied",
		zap.String("type", string(event.Type)),
		zap.Stringer("user_id", event.UserID),
		zap.String("topic", message.Topic))
	return nil
}
