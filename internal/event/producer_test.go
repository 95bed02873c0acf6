package event

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/kafka"
)

type capturedEvent struct {
	topic string
	event *kafka.Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, topic string, ev *kafka.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, capturedEvent{topic: topic, event: ev})
	return nil
}

func newTestProducer(pub *fakePublisher) *Producer {
	return NewProducer(pub, slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func TestProducer_CartUpdated(t *testing.T) {
	pub := &fakePublisher{}
	producer := newTestProducer(pub)

	producer.CartUpdated("sess-1", []domain.LineItem{
		{ProductID: "p1", Quantity: 2, Size: "M"},
		{ProductID: "p2", Quantity: 1},
	})

	require.Len(t, pub.events, 1)
	assert.Equal(t, TopicCartUpdated, pub.events[0].topic)
	assert.Equal(t, TopicCartUpdated, pub.events[0].event.EventType)

	var data CartUpdatedData
	require.NoError(t, pub.events[0].event.UnmarshalData(&data))
	assert.Equal(t, "sess-1", data.SessionID)
	assert.Equal(t, 3, data.ItemCount)
	assert.Len(t, data.Items, 2)
}

func TestProducer_OrderSubmitted(t *testing.T) {
	pub := &fakePublisher{}
	producer := newTestProducer(pub)

	producer.OrderSubmitted(domain.Order{
		ID:        "ord-1",
		SessionID: "sess-1",
		Total:     10500,
		Items:     []domain.OrderItem{{ProductID: "p1", Quantity: 2}},
	})

	require.Len(t, pub.events, 1)
	assert.Equal(t, TopicOrderSubmitted, pub.events[0].topic)

	var data OrderSubmittedData
	require.NoError(t, pub.events[0].event.UnmarshalData(&data))
	assert.Equal(t, "ord-1", data.OrderID)
	assert.Equal(t, int64(10500), data.Total)
	assert.Equal(t, 1, data.ItemCount)
}

func TestProducer_PublishFailureIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	producer := newTestProducer(pub)

	// Must not panic or propagate.
	producer.CartUpdated("sess-1", nil)
	producer.OrderSubmitted(domain.Order{ID: "ord-1"})
	assert.Empty(t, pub.events)
}
