package review

import (
	"context"

	"escaperoom/internal/events"
	"escaperoom/internal/repository"
)

// Store runs review writes and the rating recompute in one transaction.
type Store interface {
	Transaction(ctx context.Context, fn func(tx *repository.Store) error) error
	Reviews() *repository.ReviewRepository
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}
