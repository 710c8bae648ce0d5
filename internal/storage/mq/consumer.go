package mq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tuanvumaihuynh/catalog-admin/internal/config"
	"github.com/tuanvumaihuynh/catalog-admin/pkg/outbox"
)

type HandlerFunc func(ctx context.Context, topic string, payload []byte) error

type CleanupFunc func()

type Consumer interface {
	RegisterHandler(topic string, handler HandlerFunc) error
	Run(ctx context.Context) (CleanupFunc, error)
}

var _ Consumer = (*KafkaConsumer)(nil)

const retryBackoff = 200 * time.Millisecond

type KafkaConsumer struct {
	cl       *kgo.Client
	handlers map[string]HandlerFunc
	attempts int
	log      *slog.Logger
}

func NewKafkaConsumer(ctx context.Context, cfg config.Kafka, logger *slog.Logger) (*KafkaConsumer, error) {
	cl, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Addresses...),
		kgo.ClientID(cfg.ClientID),
		kgo.ConsumerGroup(cfg.Group),
		kgo.AllowAutoTopicCreation(),
		kgo.DisableAutoCommit(),
		kgo.WithContext(ctx),
		kgo.WithHooks(newKafkaTracer()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := cl.Ping(pingCtx); err != nil {
		cl.Close()
		return nil, fmt.Errorf("ping kafka: %w", err)
	}

	return &KafkaConsumer{
		cl:       cl,
		handlers: make(map[string]HandlerFunc),
		attempts: max(cfg.HandlerAttempts, 1),
		log:      logger.With(slog.String("component", "kafka_consumer")),
	}, nil
}

func (c *KafkaConsumer) RegisterHandler(topic string, handler HandlerFunc) error {
	if _, exists := c.handlers[topic]; exists {
		return fmt.Errorf("handler for topic %s already registered", topic)
	}

	c.cl.AddConsumeTopics(topic)
	c.handlers[topic] = handler
	return nil
}

// Run polls until the returned cleanup is called. Offsets are committed after
// every fetch, so a record whose handler keeps failing is logged and skipped.
func (c *KafkaConsumer) Run(ctx context.Context) (CleanupFunc, error) {
	ctx, cancel := context.WithCancel(ctx)
	doneChan := make(chan struct{})

	go func() {
		defer close(doneChan)
		for ctx.Err() == nil {
			fetches := c.cl.PollFetches(ctx)
			if errs := fetches.Errors(); len(errs) > 0 {
				if errors.Is(errs[0].Err, context.Canceled) || errors.Is(errs[0].Err, kgo.ErrClientClosed) {
					continue
				}

				c.log.ErrorContext(ctx, "error fetching messages", slog.Any("error", errs))
				continue
			}

			fetches.EachRecord(func(rec *kgo.Record) {
				c.handle(ctx, rec)
			})

			if err := c.cl.CommitUncommittedOffsets(ctx); err != nil {
				c.log.ErrorContext(ctx, "error committing offsets", slog.Any("error", err))
			}
		}
	}()

	cleanup := func() {
		cancel()
		<-doneChan
		c.cl.Close()
	}

	return cleanup, nil
}

func (c *KafkaConsumer) Close() {
	c.cl.Close()
}

// handle dispatches one record to its topic handler, retrying failed attempts.
func (c *KafkaConsumer) handle(ctx context.Context, rec *kgo.Record) {
	recCtx := outbox.ExtractContextFromHeaders(ctx, outbox.RecordHeaders(rec))
	logger := c.log.With(slog.String("topic", rec.Topic), slog.String("key", string(rec.Key)))

	fn, exists := c.handlers[rec.Topic]
	if !exists {
		logger.WarnContext(recCtx, "no handler registered for topic")
		return
	}

	var err error
	for attempt := range c.attempts {
		if attempt > 0 {
			select {
			case <-recCtx.Done():
				return
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		if err = c.call(recCtx, fn, rec); err == nil {
			return
		}
		logger.WarnContext(recCtx, "error handling message",
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))
	}

	span := trace.SpanFromContext(recCtx)
	span.RecordError(err)
	span.SetStatus(codes.Error, "message skipped")
	logger.ErrorContext(recCtx, "message skipped after retries", slog.Any("error", err))
}

func (c *KafkaConsumer) call(ctx context.Context, fn HandlerFunc, rec *kgo.Record) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			c.log.ErrorContext(ctx, "panic in message handler",
				slog.String("topic", rec.Topic),
				slog.Any("recover", rvr),
				slog.String("stack", string(debug.Stack())))
			err = fmt.Errorf("panic: %v", rvr)
		}
	}()

	return fn(ctx, rec.Topic, rec.Value)
}
