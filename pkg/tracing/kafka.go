package tracing

import (
	"context"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel/propagation"
)

// InjectTraceContext copies the span context of ctx into Kafka message headers.
// The input slice is not modified.
func InjectTraceContext(ctx context.Context, headers []sarama.RecordHeader) []sarama.RecordHeader {
	carrier := propagation.MapCarrier{}
	propagation.TraceContext{}.Inject(ctx, carrier)

	newHeaders := make([]sarama.RecordHeader, len(headers), len(headers)+len(carrier))
	copy(newHeaders, headers)

	for k, v := range carrier {
		newHeaders = append(newHeaders, sarama.RecordHeader{
			Key:   []byte(k),
			Value: []byte(v),
		})
	}
	return newHeaders
}

// ExtractTraceContext restores a span context written by InjectTraceContext.
// Consumers receive *sarama.RecordHeader, producers build sarama.RecordHeader.
func ExtractTraceContext(ctx context.Context, headers []*sarama.RecordHeader) context.Context {
	carrier := propagation.MapCarrier{}
	for _, h := range headers {
		if h == nil {
			continue
		}
		carrier[string(h.Key)] = string(h.Value)
	}
	return propagation.TraceContext{}.Extract(ctx, carrier)
}
