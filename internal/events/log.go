package events

import (
	"context"
	"log/slog"
)

// LogPublisher writes events to the structured log. Used when no broker is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, events []Event) error {
	for _, e := range events {
		slog.InfoContext(ctx, "event", "id", e.ID, "type", e.Type, "user_id", e.UserID, "data", string(e.Data))
	}
	return nil
}

func (LogPublisher) Close() error { return nil }
