package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/contracts"
	"github.com/siamroads/service-trip/internal/platform/kafka"
)

// EventPublisher sends CloudEvents to a topic. *kafka.Producer implements it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, ce kafka.CloudEvent) error
}

// publishEvent wraps data in a CloudEvent and publishes it. Failures are logged
// and never surface to the caller.
func publishEvent(ctx context.Context, publisher EventPublisher, logger *zap.Logger, topic, eventType string, data interface{}) {
	if publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(contracts.EventSource, eventType, data)
	if err != nil {
		logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
