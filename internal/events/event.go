package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ecoshop/internal/model"
)

type EventType string

const (
	EventTypeOrderProcessed EventType = "order.processed"
	EventTypePointsDonated  EventType = "points.donated"
)

// Event is the envelope written to the outbox and published downstream.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	UserID    string          `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher delivers a batch of events. Implementations must be safe to
// call from a single dispatch goroutine.
type Publisher interface {
	Publish(ctx context.Context, events []Event) error
	Close() error
}

type orderProcessedPayload struct {
	Receipt  model.Receipt        `json:"receipt"`
	Delivery model.DeliveryOption `json:"delivery"`
	Lines    int                  `json:"lines"`
}

func NewOrderProcessed(userID string, order model.Order, receipt model.Receipt) (Event, error) {
	data, err := json.Marshal(orderProcessedPayload{
		Receipt:  receipt,
		Delivery: order.Delivery,
		Lines:    len(order.Lines),
	})
	if err != nil {
		return Event{}, fmt.Errorf("marshal order payload: %w", err)
	}
	return newEvent(EventTypeOrderProcessed, userID, data), nil
}

func NewPointsDonated(d model.Donation) (Event, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return Event{}, fmt.Errorf("marshal donation payload: %w", err)
	}
	return newEvent(EventTypePointsDonated, d.UserID, data), nil
}

func newEvent(t EventType, userID string, data []byte) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      t,
		UserID:    userID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}
