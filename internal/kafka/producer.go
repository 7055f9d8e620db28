package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/pkg/tracing"
)

// NotificationProducer publishes site status changes to Kafka.
type NotificationProducer interface {
	Start(ctx context.Context)
	Publish(ctx context.Context, notif model.Notification) error
	Close(ctx context.Context)
}

type producer struct {
	asyncProducer sarama.AsyncProducer
	topic         string
	log           *slog.Logger
	wg            sync.WaitGroup
	closeOnce     sync.Once
	tracer        *tracing.Tracer
}

func NewProducer(asyncProducer sarama.AsyncProducer, topic string, log *slog.Logger, tracer *tracing.Tracer) (NotificationProducer, error) {
	if asyncProducer == nil || log == nil || tracer == nil {
		return nil, fmt.Errorf("kafka producer: nil dependency")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka producer: topic must not be empty")
	}
	return &producer{
		asyncProducer: asyncProducer,
		topic:         topic,
		log:           log.With("layer", "kafka", "component", "producer"),
		tracer:        tracer,
	}, nil
}

// NewSaramaConfig returns the producer settings the checker runs with.
// Successes and errors are both returned so the handlers can log them.
func NewSaramaConfig(clientID string) *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Retry.Max = 3
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

// Start launches the delivery report handlers.
func (p *producer) Start(ctx context.Context) {
	p.log.Info("Starting Kafka producer handlers")
	p.wg.Add(2)
	go p.handleSuccess(ctx)
	go p.handleErrors(ctx)
}

func (p *producer) handleSuccess(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case msg, ok := <-p.asyncProducer.Successes():
			if !ok {
				return
			}
			var key []byte
			if msg.Key != nil {
				key, _ = msg.Key.Encode()
			}
			p.log.Debug("Message delivered",
				slog.String("topic", msg.Topic),
				slog.Int("partition", int(msg.Partition)),
				slog.Int64("offset", msg.Offset),
				slog.String("key", string(key)))
		case <-ctx.Done():
			return
		}
	}
}

func (p *producer) handleErrors(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case perr, ok := <-p.asyncProducer.Errors():
			if !ok {
				return
			}
			p.log.Error("Message delivery failed",
				slog.String("topic", perr.Msg.Topic),
				slog.Any("error", perr.Err))
		case <-ctx.Done():
			return
		}
	}
}

// Publish queues a notification keyed by site id, so every change for one
// site lands on the same partition in order.
func (p *producer) Publish(ctx context.Context, notif model.Notification) error {
	ctx, span := p.tracer.StartClientSpan(ctx, "KafkaPublish",
		attribute.String(tracing.AttrSiteID, notif.SiteID),
		attribute.String(tracing.AttrSiteURL, notif.URL),
	)
	defer span.End()

	data, err := json.Marshal(notif)
	if err != nil {
		p.tracer.RecordError(span, err)
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(notif.SiteID),
		Value:     sarama.ByteEncoder(data),
		Timestamp: time.Now(),
		Headers:   tracing.InjectTraceContext(ctx, nil),
	}

	select {
	case p.asyncProducer.Input() <- msg:
		p.log.Info("Status change queued",
			slog.String("topic", p.topic),
			slog.String("site_id", notif.SiteID),
			slog.String("new_status", string(notif.NewStatus)))
		span.SetAttributes(
			attribute.String("kafka.topic", p.topic),
			attribute.String("kafka.key", notif.SiteID),
		)
		return nil
	case <-ctx.Done():
		span.SetStatus(codes.Error, "publish cancelled")
		return ctx.Err()
	}
}

// Close flushes pending messages and waits for the handlers to drain.
func (p *producer) Close(_ context.Context) {
	p.closeOnce.Do(func() {
		p.log.Info("Closing Kafka producer")
		p.asyncProducer.AsyncClose()
		p.wg.Wait()
		p.log.Info("Kafka producer closed")
	})
}
