// Package events handles event emission for directory lifecycle changes
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/matcha/pkg/kafka"
	"github.com/Ramsey-B/matcha/pkg/models"
	"github.com/Ramsey-B/matcha/pkg/tracing"
)

// Publisher is the kafka surface the emitter needs
type Publisher interface {
	PublishDirectoryEvent(ctx context.Context, event *kafka.DirectoryEvent) error
}

// Emitter publishes directory lifecycle events. A nil publisher disables
// emission, so callers never have to branch on whether Kafka is configured.
type Emitter struct {
	publisher Publisher
	logger    ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(publisher Publisher, logger ectologger.Logger) *Emitter {
	return &Emitter{
		publisher: publisher,
		logger:    logger,
	}
}

// EmitShopCreated emits a shop.created event
func (e *Emitter) EmitShopCreated(ctx context.Context, shop *models.Shop, source string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitShopCreated")
	defer span.End()

	if e.publisher == nil {
		return nil
	}

	data, _ := json.Marshal(shop)
	event := &kafka.DirectoryEvent{
		EventType:  "shop.created",
		RecordID:   shop.ID,
		RecordType: "shop",
		Data:       data,
		Source:     source,
	}

	if err := e.publisher.PublishDirectoryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit shop.created event")
		return err
	}

	return nil
}

// EmitShopLinkCleared emits a shop.link_cleared event after a relink pass
// removes a false-positive brand association
func (e *Emitter) EmitShopLinkCleared(ctx context.Context, shopID, brandID string, confidence float64) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitShopLinkCleared")
	defer span.End()

	if e.publisher == nil {
		return nil
	}

	data, _ := json.Marshal(map[string]any{
		"previous_brand_id": brandID,
		"confidence":        confidence,
	})
	event := &kafka.DirectoryEvent{
		EventType:  "shop.link_cleared",
		RecordID:   shopID,
		RecordType: "shop",
		Data:       data,
		Source:     "relink",
	}

	if err := e.publisher.PublishDirectoryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit shop.link_cleared event")
		return err
	}

	return nil
}

// EmitBrandCreated emits a brand.created event
func (e *Emitter) EmitBrandCreated(ctx context.Context, brand *models.Brand, source string) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitBrandCreated")
	defer span.End()

	if e.publisher == nil {
		return nil
	}

	data, _ := json.Marshal(brand)
	event := &kafka.DirectoryEvent{
		EventType:  "brand.created",
		RecordID:   brand.ID,
		RecordType: "brand",
		Data:       data,
		Source:     source,
	}

	if err := e.publisher.PublishDirectoryEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit brand.created event")
		return err
	}

	return nil
}
