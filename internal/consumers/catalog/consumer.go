package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/tradecove/catalog-backend/pkg/logger"
)

// Entity names the cache namespace a change event targets.
type Entity string

const (
	EntityProduct  Entity = "product"
	EntitySupplier Entity = "supplier"
	EntityCategory Entity = "category"
)

// ChangeEvent is the envelope the catalog-management service publishes
// for every entity mutation.
type ChangeEvent struct {
	EventID  string `json:"event_id"`
	Entity   Entity `json:"entity"`
	EntityID string `json:"entity_id"`
	Action   string `json:"action"`
}

type entityInvalidator interface {
	InvalidateProduct(ctx context.Context, id uuid.UUID)
	InvalidateSupplier(ctx context.Context, id uuid.UUID)
	InvalidateCategory(ctx context.Context, id uuid.UUID)
}

// Consumer drops stale cache entries in response to catalog-change
// events. Malformed envelopes are acked and logged; a poison message
// must not wedge the subscription.
type Consumer struct {
	subscription *gcppubsub.Subscriber
	cache        entityInvalidator
	logg         *logger.Logger
}

// NewConsumer builds the invalidation consumer.
func NewConsumer(subscription *gcppubsub.Subscriber, cache entityInvalidator, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("catalog subscription is required")
	}
	if cache == nil {
		return nil, errors.New("cache service is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{subscription: subscription, cache: cache, logg: logg}, nil
}

type processResult struct {
	nack bool
}

// Run consumes catalog-change messages until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if c.process(innerCtx, msg.Data, msg.ID).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, data []byte, messageID string) processResult {
	fields := map[string]any{"message_id": messageID}

	event, err := decodeChangeEvent(data)
	if err != nil {
		fields["error"] = err.Error()
		c.logg.Warn(c.logg.WithFields(ctx, fields), "invalid catalog change envelope")
		return processResult{}
	}
	fields["event_id"] = event.EventID
	fields["entity"] = string(event.Entity)
	fields["entity_id"] = event.EntityID
	fields["action"] = event.Action
	logCtx := c.logg.WithFields(ctx, fields)

	entityID, err := uuid.Parse(event.EntityID)
	if err != nil {
		c.logg.Warn(logCtx, "invalid entity id")
		return processResult{}
	}

	switch event.Entity {
	case EntityProduct:
		c.cache.InvalidateProduct(logCtx, entityID)
	case EntitySupplier:
		c.cache.InvalidateSupplier(logCtx, entityID)
	case EntityCategory:
		c.cache.InvalidateCategory(logCtx, entityID)
	default:
		c.logg.Warn(logCtx, "unhandled entity kind")
		return processResult{}
	}

	c.logg.Info(logCtx, "cache entry invalidated")
	return processResult{}
}

func decodeChangeEvent(data []byte) (*ChangeEvent, error) {
	var event ChangeEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode change event: %w", err)
	}
	event.EventID = strings.TrimSpace(event.EventID)
	event.Entity = Entity(strings.TrimSpace(string(event.Entity)))
	event.EntityID = strings.TrimSpace(event.EntityID)
	event.Action = strings.TrimSpace(event.Action)
	if event.EventID == "" {
		return nil, errors.New("event_id missing")
	}
	if event.EntityID == "" {
		return nil, errors.New("entity_id missing")
	}
	return &event, nil
}
