package events

import (
	"context"
	"strings"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/siamroads/service-trip/internal/contracts"
	"github.com/siamroads/service-trip/internal/platform/domain"
	"github.com/siamroads/service-trip/internal/platform/kafka"
)

// LeadContactRecorder is the part of the lead service the CRM consumer drives.
type LeadContactRecorder interface {
	MarkContacted(ctx context.Context, reference, note string) error
}

// CRMEventConsumer listens to CRM events and records lead follow-ups.
type CRMEventConsumer struct {
	consumer *kafka.Consumer
	leads    LeadContactRecorder
	logger   *zap.Logger
}

// NewCRMEventConsumer creates a new CRMEventConsumer.
func NewCRMEventConsumer(
	brokers []string,
	groupID string,
	leads LeadContactRecorder,
	logger *zap.Logger,
) *CRMEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, contracts.TopicCRMEvents, logger)
	return &CRMEventConsumer{
		consumer: consumer,
		leads:    leads,
		logger:   logger,
	}
}

// Start begins consuming CRM events. This blocks until the context is cancelled.
func (c *CRMEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *CRMEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *CRMEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from crm topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case contracts.CRMLeadContacted:
		return c.handleLeadContacted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled crm event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *CRMEventConsumer) handleLeadContacted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt contracts.LeadContactedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse LeadContactedEvent data", zap.Error(err))
		return nil
	}

	reference := strings.TrimSpace(evt.Reference)
	if reference == "" {
		c.logger.Warn("lead contacted event without reference", zap.String("event_id", cloudEvent.ID))
		return nil
	}

	note := evt.Note
	if note == "" && evt.Agent != "" {
		note = "contacted by " + evt.Agent
	}

	if err := c.leads.MarkContacted(ctx, reference, note); err != nil {
		if domain.IsKind(err, domain.KindNotFound) || domain.IsKind(err, domain.KindConflict) {
			c.logger.Warn("skipping lead contacted event",
				zap.String("reference", reference),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to mark lead contacted",
			zap.String("reference", reference),
			zap.Error(err),
		)
		return err
	}

	c.logger.Info("lead marked contacted from crm", zap.String("reference", reference))
	return nil
}
