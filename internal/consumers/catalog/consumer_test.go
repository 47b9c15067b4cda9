package catalog

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/tradecove/catalog-backend/pkg/logger"
)

type stubInvalidator struct {
	products   []uuid.UUID
	suppliers  []uuid.UUID
	categories []uuid.UUID
}

func (s *stubInvalidator) InvalidateProduct(ctx context.Context, id uuid.UUID) {
	s.products = append(s.products, id)
}

func (s *stubInvalidator) InvalidateSupplier(ctx context.Context, id uuid.UUID) {
	s.suppliers = append(s.suppliers, id)
}

func (s *stubInvalidator) InvalidateCategory(ctx context.Context, id uuid.UUID) {
	s.categories = append(s.categories, id)
}

func newTestConsumer(t *testing.T, cache *stubInvalidator) *Consumer {
	t.Helper()
	return &Consumer{
		cache: cache,
		logg:  logger.New(logger.Options{ServiceName: "invalidation-test", Output: io.Discard}),
	}
}

func encodeEvent(t *testing.T, event ChangeEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return data
}

func TestProcessInvalidatesByEntity(t *testing.T) {
	cases := []struct {
		name   string
		entity Entity
		count  func(s *stubInvalidator) int
	}{
		{name: "product", entity: EntityProduct, count: func(s *stubInvalidator) int { return len(s.products) }},
		{name: "supplier", entity: EntitySupplier, count: func(s *stubInvalidator) int { return len(s.suppliers) }},
		{name: "category", entity: EntityCategory, count: func(s *stubInvalidator) int { return len(s.categories) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cache := &stubInvalidator{}
			consumer := newTestConsumer(t, cache)

			data := encodeEvent(t, ChangeEvent{
				EventID:  uuid.NewString(),
				Entity:   tc.entity,
				EntityID: uuid.NewString(),
				Action:   "updated",
			})
			res := consumer.process(context.Background(), data, "m-1")
			if res.nack {
				t.Fatalf("expected ack")
			}
			if tc.count(cache) != 1 {
				t.Fatalf("expected one %s invalidation", tc.name)
			}
		})
	}
}

func TestProcessAcksMalformedPayloads(t *testing.T) {
	cases := []struct {
		name string
		data []byte
	}{
		{name: "notJSON", data: []byte("not json")},
		{name: "missingEventID", data: encodeEventRaw(t, map[string]string{"entity": "product", "entity_id": uuid.NewString(), "action": "updated"})},
		{name: "missingEntityID", data: encodeEventRaw(t, map[string]string{"event_id": uuid.NewString(), "entity": "product", "action": "updated"})},
		{name: "badEntityID", data: encodeEventRaw(t, map[string]string{"event_id": uuid.NewString(), "entity": "product", "entity_id": "not-a-uuid", "action": "updated"})},
		{name: "unknownEntity", data: encodeEventRaw(t, map[string]string{"event_id": uuid.NewString(), "entity": "warehouse", "entity_id": uuid.NewString(), "action": "updated"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cache := &stubInvalidator{}
			consumer := newTestConsumer(t, cache)

			res := consumer.process(context.Background(), tc.data, "m-1")
			if res.nack {
				t.Fatalf("malformed payloads must be acked, not retried")
			}
			if len(cache.products)+len(cache.suppliers)+len(cache.categories) != 0 {
				t.Fatalf("no invalidation expected for malformed payloads")
			}
		})
	}
}

func encodeEventRaw(t *testing.T, fields map[string]string) []byte {
	t.Helper()
	data, err := json.Marshal(fields)
	if err != nil {
		t.Fatalf("marshal fields: %v", err)
	}
	return data
}
