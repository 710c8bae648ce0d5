package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/cache"
	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
	cache      cache.Cache
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
	cache cache.Cache,
) *Service {
	return &Service{
		logger:     logger.With(slog.String("service", "event")),
		mqConsumer: mqConsumer,
		cache:      cache,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := s.RegisterHandlers(); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

// RegisterHandlers registers the product event handlers on the consumer.
func (s *Service) RegisterHandlers() error {
	if err := s.mqConsumer.RegisterHandler(TopicProductCreated, decode(s.handleProductCreatedEvent)); err != nil {
		return fmt.Errorf("register product created event handler: %w", err)
	}
	if err := s.mqConsumer.RegisterHandler(TopicProductUpdated, decode(s.handleProductUpdatedEvent)); err != nil {
		return fmt.Errorf("register product updated event handler: %w", err)
	}
	if err := s.mqConsumer.RegisterHandler(TopicProductDeleted, decode(s.handleProductDeletedEvent)); err != nil {
		return fmt.Errorf("register product deleted event handler: %w", err)
	}

	return nil
}

func decode[E any](handle func(ctx context.Context, ev E) error) mq.HandlerFunc {
	return func(ctx context.Context, topic string, payload []byte) error {
		var ev E
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("unmarshal %s event: %w", topic, err)
		}

		if err := handle(ctx, ev); err != nil {
			return fmt.Errorf("handle %s event: %w", topic, err)
		}

		return nil
	}
}
