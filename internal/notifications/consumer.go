package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/scholarbridge/scholarbridge-backend/pkg/enums"
	"github.com/scholarbridge/scholarbridge-backend/pkg/logger"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox/idempotency"
	"github.com/scholarbridge/scholarbridge-backend/pkg/outbox/payloads"
)

const scholarshipEventConsumer = "scholarship-notifications"

// Consumer watches scholarship domain events and fans them out into
// notifications: published scholarships trigger the field-matched broadcast,
// fresh applications notify the owning admin.
type Consumer struct {
	fanout       Fanout
	subscription *pubsub.Subscriber
	idempotency  *idempotency.Manager
	logg         *logger.Logger
}

// NewConsumer builds a scholarship event consumer.
func NewConsumer(fanout Fanout, subscription *pubsub.Subscriber, manager *idempotency.Manager, logg *logger.Logger) (*Consumer, error) {
	if fanout == nil {
		return nil, fmt.Errorf("notification fanout required")
	}
	if subscription == nil {
		return nil, fmt.Errorf("scholarship subscription required")
	}
	if manager == nil {
		return nil, fmt.Errorf("idempotency manager required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Consumer{
		fanout:       fanout,
		subscription: subscription,
		idempotency:  manager,
		logg:         logg,
	}, nil
}

// Run starts the consumer loop until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	return c.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		result := c.process(ctx, msg)
		if result.nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

type processResult struct {
	ack  bool
	nack bool
}

func (c *Consumer) process(ctx context.Context, msg *pubsub.Message) processResult {
	eventType := enums.OutboxEventType(msg.Attributes["event_type"])
	fields := map[string]any{
		"message_id": msg.ID,
		"event_type": eventType,
	}
	logCtx := c.logg.WithFields(ctx, fields)

	switch eventType {
	case enums.EventScholarshipPublished, enums.EventApplicationSubmitted:
	default:
		c.logg.Info(logCtx, "skipping unhandled event")
		return processResult{ack: true}
	}

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		c.logg.Error(logCtx, "failed to decode envelope", err)
		return processResult{ack: true}
	}

	eventID, err := uuid.Parse(envelope.EventID)
	if err != nil {
		c.logg.Error(logCtx, "invalid event id", err)
		return processResult{ack: true}
	}

	already, err := c.idempotency.CheckAndMarkProcessed(ctx, scholarshipEventConsumer, eventID)
	if err != nil {
		c.logg.Error(logCtx, "idempotency check failed", err)
		return processResult{nack: true}
	}
	if already {
		c.logg.Info(logCtx, "event already processed")
		return processResult{ack: true}
	}

	if err := c.handle(ctx, eventType, envelope.Data, logCtx); err != nil {
		c.logg.Error(logCtx, "notification handling failed", err)
		_ = c.idempotency.Delete(ctx, scholarshipEventConsumer, eventID)
		return processResult{nack: true}
	}

	return processResult{ack: true}
}

func (c *Consumer) handle(ctx context.Context, eventType enums.OutboxEventType, data json.RawMessage, logCtx context.Context) error {
	switch eventType {
	case enums.EventScholarshipPublished:
		return c.handleScholarshipPublished(ctx, data, logCtx)
	case enums.EventApplicationSubmitted:
		return c.handleApplicationSubmitted(ctx, data, logCtx)
	default:
		return nil
	}
}

func (c *Consumer) handleScholarshipPublished(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.ScholarshipPublishedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse scholarship payload: %w", err)
	}
	if payload.ScholarshipID == uuid.Nil {
		return fmt.Errorf("scholarship id missing")
	}

	result, err := c.fanout.BroadcastFieldMatch(ctx, payload.ScholarshipID)
	if err != nil {
		return err
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"scholarship_id": payload.ScholarshipID.String(),
		"matched":        result.Matched,
		"created":        result.Created,
	})
	c.logg.Info(logCtx, "field match broadcast dispatched")
	return nil
}

func (c *Consumer) handleApplicationSubmitted(ctx context.Context, data json.RawMessage, logCtx context.Context) error {
	var payload payloads.ApplicationSubmittedEvent
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("parse application payload: %w", err)
	}
	if payload.AdminID == uuid.Nil {
		return fmt.Errorf("admin id missing")
	}

	message := fmt.Sprintf("%s (%s) applied to %s.",
		payload.ApplicantName, payload.ApplicantEmail, payload.ScholarshipTitle)
	if err := c.fanout.Notify(ctx, payload.AdminID, enums.NotificationTypeApplicationUpdate, message); err != nil {
		return err
	}

	logCtx = c.logg.WithFields(logCtx, map[string]any{
		"application_id": payload.ApplicationID.String(),
		"admin_id":       payload.AdminID.String(),
	})
	c.logg.Info(logCtx, "owning admin notified of application")
	return nil
}
