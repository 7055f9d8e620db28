package kafka

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/pkg/tracing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleNotification() model.Notification {
	return model.Notification{
		SiteID:    "site-1",
		URL:       "https://example.com",
		OldStatus: model.StatusUp,
		NewStatus: model.StatusDown,
		CheckedAt: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewProducer_Validation(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, NewSaramaConfig("test"))
	defer mp.Close()

	_, err := NewProducer(nil, "topic", testLogger(), tracing.Named("test"))
	assert.Error(t, err)

	_, err = NewProducer(mp, "", testLogger(), tracing.Named("test"))
	assert.Error(t, err)

	p, err := NewProducer(mp, "site-status", testLogger(), tracing.Named("test"))
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestPublish_QueuesKeyedMessage(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, NewSaramaConfig("test"))
	mp.ExpectInputAndSucceed()

	p, err := NewProducer(mp, "site-status", testLogger(), tracing.Named("test"))
	require.NoError(t, err)

	notif := sampleNotification()
	require.NoError(t, p.Publish(context.Background(), notif))

	var msg *sarama.ProducerMessage
	select {
	case msg = <-mp.Successes():
	case <-time.After(2 * time.Second):
		t.Fatal("message was not delivered")
	}

	assert.Equal(t, "site-status", msg.Topic)
	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "site-1", string(key))

	raw, err := msg.Value.Encode()
	require.NoError(t, err)
	var got model.Notification
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, notif, got)

	require.NoError(t, mp.Close())
}

func TestPublish_DeliveryFailureIsLogged(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, NewSaramaConfig("test"))
	mp.ExpectInputAndFail(sarama.ErrOutOfBrokers)

	p, err := NewProducer(mp, "site-status", testLogger(), tracing.Named("test"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	// queuing succeeds; the broker error surfaces on the errors channel
	require.NoError(t, p.Publish(ctx, sampleNotification()))

	done := make(chan struct{})
	go func() {
		p.Close(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}

func TestClose_Idempotent(t *testing.T) {
	mp := mocks.NewAsyncProducer(t, NewSaramaConfig("test"))
	mp.ExpectInputAndSucceed()

	p, err := NewProducer(mp, "site-status", testLogger(), tracing.Named("test"))
	require.NoError(t, err)

	p.Start(context.Background())
	require.NoError(t, p.Publish(context.Background(), sampleNotification()))

	p.Close(context.Background())
	p.Close(context.Background())
}
