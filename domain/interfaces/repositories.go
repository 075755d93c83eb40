package interfaces

import (
	"context"

	"quina/domain/entities"
	"quina/domain/events"
)

// DrawRepository defines the interface for draw data access
type DrawRepository interface {
	// FetchAll returns stored draws, most recent first. A limit <= 0 returns every draw.
	FetchAll(ctx context.Context, limit int) ([]*entities.Draw, error)

	// FetchBySequence retrieves a draw by its sequence number, nil if absent
	FetchBySequence(ctx context.Context, sequenceNumber int) (*entities.Draw, error)

	// FetchLatest retrieves the draw with the greatest sequence number, nil if the store is empty
	FetchLatest(ctx context.Context) (*entities.Draw, error)

	// Upsert stores a draw, fully replacing any draw with the same sequence number
	Upsert(ctx context.Context, draw *entities.Draw) error

	// Count returns the number of stored draws
	Count(ctx context.Context) (int, error)
}

// DrawProvider defines the interface for the remote source of draw results
type DrawProvider interface {
	// FetchLatest retrieves the most recent published draw
	FetchLatest(ctx context.Context) (*entities.Draw, error)

	// FetchBySequence retrieves a specific published draw
	FetchBySequence(ctx context.Context, sequenceNumber int) (*entities.Draw, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}
