package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/MadSCI-entist/the-green-co/internal/worker"

// Acker is the acknowledgement surface of a Pub/Sub message.
type Acker interface {
	Ack()
	Nack()
}

// PubSubHandler receives ingestion messages and dispatches them to an IngestJob.
type PubSubHandler struct {
	client     *pubsub.Client
	subscriber *pubsub.Subscriber
	cfg        Config
	job        *IngestJob
	logger     zerolog.Logger
	tracer     trace.Tracer
	messages   metric.Int64Counter
}

// PubSubConfig holds configuration for the Pub/Sub handler.
type PubSubConfig struct {
	Config Config
	Job    *IngestJob
	Logger zerolog.Logger
}

// NewPubSubHandler creates a Pub/Sub client and subscriber for cfg.Config.Subscription.
func NewPubSubHandler(ctx context.Context, cfg PubSubConfig) (*PubSubHandler, error) {
	client, err := pubsub.NewClient(ctx, cfg.Config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	subscriber := client.Subscriber(cfg.Config.Subscription)
	subscriber.ReceiveSettings.MaxOutstandingMessages = cfg.Config.MaxOutstandingMessages
	subscriber.ReceiveSettings.MaxExtension = cfg.Config.MaxExtension

	h, err := newHandler(cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	h.client = client
	h.subscriber = subscriber
	return h, nil
}

func newHandler(cfg PubSubConfig) (*PubSubHandler, error) {
	messages, err := otel.Meter(instrumentationName).Int64Counter("worker.messages",
		metric.WithDescription("Ingestion messages by job type and outcome"),
		metric.WithUnit("{message}"))
	if err != nil {
		return nil, fmt.Errorf("creating message counter: %w", err)
	}
	return &PubSubHandler{
		cfg:      cfg.Config,
		job:      cfg.Job,
		logger:   cfg.Logger,
		tracer:   otel.Tracer(instrumentationName),
		messages: messages,
	}, nil
}

// Start blocks receiving messages until ctx is cancelled or receiving fails.
func (h *PubSubHandler) Start(ctx context.Context) error {
	h.logger.Info().
		Str("subscription", h.cfg.Subscription).
		Int("max_outstanding", h.cfg.MaxOutstandingMessages).
		Msg("starting pubsub handler")

	return h.subscriber.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		h.process(ctx, msg.ID, msg.PublishTime, msg.Data, msg)
	})
}

// Close closes the Pub/Sub client.
func (h *PubSubHandler) Close() error {
	return h.client.Close()
}

// process runs one message and settles it: success and permanent failures are
// acked, transient failures are nacked for redelivery.
func (h *PubSubHandler) process(ctx context.Context, id string, published time.Time, data []byte, acker Acker) {
	start := time.Now()
	logger := h.logger.With().
		Str("message_id", id).
		Time("publish_time", published).
		Logger()

	if h.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.cfg.JobTimeout)
		defer cancel()
	}

	ctx, span := h.tracer.Start(ctx, "worker.HandleMessage",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attribute.String("messaging.message.id", id)),
	)
	defer span.End()

	jobType, err := h.job.Handle(ctx, data)
	span.SetAttributes(attribute.String("worker.job_type", jobType))

	outcome := "ok"
	switch {
	case err == nil:
		logger.Info().Str("job_type", jobType).Dur("duration", time.Since(start)).Msg("job completed")
		acker.Ack()
	case errors.Is(err, ErrInvalidMessage):
		outcome = "rejected"
		logger.Warn().Err(err).Str("job_type", jobType).Msg("dropping invalid message")
		acker.Ack()
	default:
		outcome = "failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error().Err(err).Str("job_type", jobType).Msg("job failed, message will be redelivered")
		acker.Nack()
	}

	h.messages.Add(ctx, 1, metric.WithAttributes(
		attribute.String("job_type", jobType),
		attribute.String("outcome", outcome),
	))
}
