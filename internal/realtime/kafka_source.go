package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/pkg/tracing"
)

// KafkaSource feeds status change notifications from the checker into the
// hub as UPDATE events on sites. It is the alternative to PGListener when
// the web tier cannot hold a LISTEN connection.
type KafkaSource struct {
	topic         string
	consumerGroup sarama.ConsumerGroup
	out           Publisher
	tracer        *tracing.Tracer
	log           *slog.Logger
}

func NewKafkaSource(topic string, consumerGroup sarama.ConsumerGroup, out Publisher, log *slog.Logger) *KafkaSource {
	return &KafkaSource{
		topic:         topic,
		consumerGroup: consumerGroup,
		out:           out,
		tracer:        tracing.Named("realtime-kafka-source"),
		log:           log.With("layer", "realtime", "component", "kafkaSource"),
	}
}

// Start consumes until ctx is cancelled or the consumer group is closed.
func (c *KafkaSource) Start(ctx context.Context) error {
	defer func() {
		if err := c.consumerGroup.Close(); err != nil {
			c.log.Warn("Failed to close consumer group", slog.Any("error", err))
		}
	}()

	c.log.Info("Kafka source started", slog.String("topic", c.topic))

	backoff := minBackoff
	for {
		err := c.consumerGroup.Consume(ctx, []string{c.topic}, c)
		if err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return err
			}
			c.log.Error("Error consuming messages", slog.Any("error", err))

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		if ctx.Err() != nil {
			c.log.Info("Context cancelled, stopping Kafka source")
			return ctx.Err()
		}
		backoff = minBackoff
	}
}

func (c *KafkaSource) Setup(session sarama.ConsumerGroupSession) error {
	for topic, partitions := range session.Claims() {
		c.log.Info("Partition assignment",
			slog.String("topic", topic),
			slog.Any("partitions", partitions),
		)
	}
	return nil
}

func (c *KafkaSource) Cleanup(_ sarama.ConsumerGroupSession) error {
	c.log.Info("Kafka session cleanup complete")
	return nil
}

func (c *KafkaSource) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		c.handle(session.Context(), message)
		session.MarkMessage(message, "")
	}
	return nil
}

func (c *KafkaSource) handle(ctx context.Context, message *sarama.ConsumerMessage) {
	ctx = tracing.ExtractTraceContext(ctx, message.Headers)
	_, span := c.tracer.StartConsumerSpan(ctx, "kafka.consume")
	defer span.End()
	c.tracer.AddKafkaAttributes(span, message.Topic, "receive", message.Partition, message.Offset)

	var notif model.Notification
	if err := json.Unmarshal(message.Value, &notif); err != nil {
		c.log.Error("Failed to decode message", slog.Any("error", err), slog.Int64("offset", message.Offset))
		c.tracer.RecordError(span, err)
		return
	}
	if notif.SiteID == "" {
		c.log.Warn("Notification without site id", slog.Int64("offset", message.Offset))
		return
	}
	span.SetAttributes(attribute.String(tracing.AttrSiteID, notif.SiteID))

	c.out.Publish(notificationToChange(notif))
}

func notificationToChange(n model.Notification) model.ChangeEvent {
	checkedAt := n.CheckedAt
	return model.ChangeEvent{
		Table: "sites",
		Type:  model.EventUpdate,
		Record: &model.Site{
			ID:            n.SiteID,
			URL:           n.URL,
			Status:        n.NewStatus,
			LastCheckedAt: &checkedAt,
		},
		CommitTimestamp: checkedAt,
	}
}
