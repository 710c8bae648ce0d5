package relay

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tuanvumaihuynh/catalog-admin/internal/config"
	"github.com/tuanvumaihuynh/catalog-admin/internal/repository"
	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/db"
	"github.com/tuanvumaihuynh/catalog-admin/internal/storage/mq"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/outbox"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/ptr"
)

// Service publishes product change messages written to the outbox table.
type Service struct {
	cfg           config.Relay
	logger        *slog.Logger
	db            db.DB
	outboxMsgRepo repository.OutboxMsgRepository
	mqProducer    mq.Producer

	stopChan chan struct{}
}

func NewService(
	cfg config.Relay,
	logger *slog.Logger,
	db db.DB,
	outboxMsgRepo repository.OutboxMsgRepository,
	mqProducer mq.Producer,
) *Service {
	return &Service{
		cfg:           cfg,
		logger:        logger.With(slog.String("service", "relay")),
		db:            db,
		outboxMsgRepo: outboxMsgRepo,
		mqProducer:    mqProducer,
		stopChan:      make(chan struct{}),
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) CleanupFunc {
	ctx, cancel := context.WithCancel(ctx)

	stoppedChan := make(chan struct{})
	go func() {
		defer close(stoppedChan)
		s.run(ctx)
	}()

	return func() {
		close(s.stopChan)
		select {
		case <-stoppedChan:
		case <-time.After(5 * time.Second):
		}
		cancel()
	}
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case <-ticker.C:
			if _, err := s.RelayBatch(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error relaying outbox msgs", slog.Any("error", err))
			}
			if _, err := s.Purge(ctx); err != nil {
				s.logger.ErrorContext(ctx, "error purging outbox msgs", slog.Any("error", err))
			}
		}
	}
}

// RelayBatch produces one batch of unprocessed outbox messages and marks them
// processed, recording the produce error of each failed message. It returns
// the number of messages handled.
func (s *Service) RelayBatch(ctx context.Context) (int, error) {
	var count int

	err := s.db.WithTx(ctx, func(db db.DB) error {
		outboxMsgs, err := s.outboxMsgRepo.
			WithDB(db).
			ListUnprocessedOutboxMsgs(ctx, repository.ListUnprocessedOutboxMsgsParams{
				//nolint:gosec
				BatchSize: int32(s.cfg.BatchSize),
			})
		if err != nil {
			return fmt.Errorf("list unprocessed outbox msgs: %w", err)
		}

		count = len(outboxMsgs)
		if count == 0 {
			return nil
		}

		s.logger.InfoContext(ctx, "relaying outbox msgs", slog.Int("count", count))

		items := make([]repository.BulkUpdateOutboxMsgsItem, 0, count)
		var (
			mu sync.Mutex
			wg sync.WaitGroup
		)

		for _, msg := range outboxMsgs {
			wg.Go(func() {
				item := repository.BulkUpdateOutboxMsgsItem{ID: msg.ID}
				if err := s.produce(ctx, msg); err != nil {
					item.Error = ptr.New(err.Error())
				}

				mu.Lock()
				items = append(items, item)
				mu.Unlock()
			})
		}

		wg.Wait()

		if err := s.outboxMsgRepo.
			WithDB(db).
			BulkUpdateOutboxMsgs(ctx, repository.BulkUpdateOutboxMsgsParams{
				Items: items,
			}); err != nil {
			return fmt.Errorf("bulk update outbox msgs: %w", err)
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

// Purge deletes published messages older than the configured retention.
func (s *Service) Purge(ctx context.Context) (int64, error) {
	if s.cfg.Retention <= 0 {
		return 0, nil
	}

	n, err := s.outboxMsgRepo.DeleteProcessedOutboxMsgs(ctx, repository.DeleteProcessedOutboxMsgsParams{
		ProcessedBefore: time.Now().Add(-s.cfg.Retention),
	})
	if err != nil {
		return 0, fmt.Errorf("delete processed outbox msgs: %w", err)
	}
	if n > 0 {
		s.logger.InfoContext(ctx, "purged outbox msgs", slog.Int64("count", n))
	}

	return n, nil
}

func (s *Service) produce(ctx context.Context, msg repository.ListUnprocessedOutboxMsgsResult) error {
	msgCtx := outbox.ExtractContextFromHeaders(ctx, msg.Headers)

	if err := s.mqProducer.Produce(msgCtx, mq.ProduceMsg{
		Topic:        msg.Topic,
		Headers:      msg.Headers,
		Payload:      msg.Payload,
		PartitionKey: msg.PartitionKey,
	}); err != nil {
		s.logger.ErrorContext(msgCtx,
			"error producing message",
			slog.String("outbox_msg_id", msg.ID.String()),
			slog.String("topic", msg.Topic),
			slog.Any("error", err),
		)
		return fmt.Errorf("produce message: %w", err)
	}

	return nil
}
