package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageHandler processes one message. A returned error makes the consumer
// retry the same message with backoff; nothing after it is committed until it succeeds.
type MessageHandler func(ctx context.Context, msg kafkago.Message) error

// messageReader is the subset of *kafkago.Reader the consumer drives.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Consumer reads a single topic as part of a consumer group.
type Consumer struct {
	reader     messageReader
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
}

// NewConsumer creates a Consumer for topic within groupID.
func NewConsumer(brokers []string, groupID, topic string, logger *zap.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newConsumer(reader, logger, defaultBackOff)
}

func newConsumer(reader messageReader, logger *zap.Logger, newBackOff func() backoff.BackOff) *Consumer {
	return &Consumer{reader: reader, logger: logger, newBackOff: newBackOff}
}

// defaultBackOff retries without an elapsed-time limit; only ctx ends it.
func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Consume fetches messages until ctx is cancelled. Each message is handled until
// it succeeds and is then committed, so a failing message blocks the partition
// rather than being skipped.
func (c *Consumer) Consume(ctx context.Context, handle MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return context.Canceled
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err := c.handleWithRetry(ctx, msg, handle); err != nil {
			// Only cancellation ends the retry loop; the offset stays uncommitted.
			return context.Canceled
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit message",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *Consumer) handleWithRetry(ctx context.Context, msg kafkago.Message, handle MessageHandler) error {
	attempt := 0
	operation := func() error {
		attempt++
		return handle(ctx, msg)
	}
	notify := func(err error, wait time.Duration) {
		c.logger.Error("message handler failed, retrying",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
	}
	return backoff.RetryNotify(operation, backoff.WithContext(c.newBackOff(), ctx), notify)
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
