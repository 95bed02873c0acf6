// Package event publishes storefront domain events to Kafka. Publishing is
// best-effort: a broker outage is logged and never surfaces to the caller.
package event

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhinimbalkar96-spec/blak-website/internal/domain"
	"github.com/abhinimbalkar96-spec/blak-website/pkg/kafka"
)

const (
	TopicCartUpdated    = "storefront.cart.updated"
	TopicOrderSubmitted = "storefront.order.submitted"

	source         = "storefront"
	publishTimeout = 5 * time.Second
)

// CartUpdatedData is the payload of a storefront.cart.updated event.
type CartUpdatedData struct {
	SessionID string            `json:"session_id"`
	Items     []domain.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
}

// OrderSubmittedData is the payload of a storefront.order.submitted event.
type OrderSubmittedData struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
	Total     int64  `json:"total"`
	ItemCount int    `json:"item_count"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, event *kafka.Event) error
}

// Producer emits storefront events.
type Producer struct {
	producer publisher
	logger   *slog.Logger
}

func NewProducer(producer publisher, logger *slog.Logger) *Producer {
	return &Producer{producer: producer, logger: logger}
}

// CartUpdated publishes a cart snapshot. Safe to call from the store's
// observer hook; failures are logged and swallowed.
func (p *Producer) CartUpdated(sessionID string, items []domain.LineItem) {
	ev, err := kafka.NewEvent(TopicCartUpdated, sessionID, "cart", source, CartUpdatedData{
		SessionID: sessionID,
		Items:     items,
		ItemCount: domain.ItemCount(items),
	})
	if err != nil {
		p.logger.Error("build cart updated event", "session_id", sessionID, "error", err)
		return
	}
	p.publish(TopicCartUpdated, ev)
}

// OrderSubmitted publishes a successful checkout.
func (p *Producer) OrderSubmitted(order domain.Order) {
	ev, err := kafka.NewEvent(TopicOrderSubmitted, order.ID, "order", source, OrderSubmittedData{
		OrderID:   order.ID,
		SessionID: order.SessionID,
		Total:     order.Total,
		ItemCount: len(order.Items),
	})
	if err != nil {
		p.logger.Error("build order submitted event", "order_id", order.ID, "error", err)
		return
	}
	p.publish(TopicOrderSubmitted, ev)
}

func (p *Producer) publish(topic string, ev *kafka.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := p.producer.Publish(ctx, topic, ev); err != nil {
		p.logger.Warn("publish event failed", "topic", topic, "error", err)
	}
}
