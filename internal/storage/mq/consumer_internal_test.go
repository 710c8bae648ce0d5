package mq

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tuanvumaihuynh/catalog-admin/pkg/correlationid"
)

func newTestConsumer(attempts int) *KafkaConsumer {
	return &KafkaConsumer{
		handlers: map[string]HandlerFunc{},
		attempts: attempts,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestKafkaConsumerHandle(t *testing.T) {
	rec := &kgo.Record{
		Topic:   "product.updated",
		Key:     []byte("p1"),
		Value:   []byte(`{"productId":"p1"}`),
		Headers: []kgo.RecordHeader{{Key: correlationid.Header, Value: []byte("req-9")}},
	}

	t.Run("Should pass payload and correlation id", func(t *testing.T) {
		c := newTestConsumer(1)
		var (
			gotPayload []byte
			gotID      string
		)
		c.handlers["product.updated"] = func(ctx context.Context, _ string, payload []byte) error {
			gotPayload = payload
			gotID, _ = correlationid.FromContext(ctx)
			return nil
		}

		c.handle(context.Background(), rec)

		assert.Equal(t, rec.Value, gotPayload)
		assert.Equal(t, "req-9", gotID)
	})

	t.Run("Should retry failed handler", func(t *testing.T) {
		c := newTestConsumer(3)
		calls := 0
		c.handlers["product.updated"] = func(context.Context, string, []byte) error {
			calls++
			if calls < 2 {
				return errors.New("cache unavailable")
			}
			return nil
		}

		c.handle(context.Background(), rec)

		assert.Equal(t, 2, calls)
	})

	t.Run("Should recover handler panic", func(t *testing.T) {
		c := newTestConsumer(2)
		calls := 0
		c.handlers["product.updated"] = func(context.Context, string, []byte) error {
			calls++
			panic("nil map")
		}

		assert.NotPanics(t, func() { c.handle(context.Background(), rec) })
		assert.Equal(t, 2, calls)
	})

	t.Run("Should ignore unknown topic", func(t *testing.T) {
		c := newTestConsumer(1)

		assert.NotPanics(t, func() { c.handle(context.Background(), &kgo.Record{Topic: "order.created"}) })
	})
}
