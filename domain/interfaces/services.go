package interfaces

import (
	"context"

	"quina/domain/entities"
)

// StatisticsService computes aggregates over the stored draw history
type StatisticsService interface {
	// ComputeStatistics reads the full history once and returns every aggregate
	ComputeStatistics(ctx context.Context) (*entities.Statistics, error)
}

// SuggestionService generates number suggestions from the statistics
type SuggestionService interface {
	// Generate produces gameCount sets of numberCount numbers using the named strategy.
	// Invalid input returns a *entities.ValidationError.
	Generate(ctx context.Context, strategy string, numberCount, gameCount int) (*entities.SuggestionResult, error)
}

// TicketService checks played tickets against stored draws
type TicketService interface {
	// Check compares numbers with the draw identified by sequenceNumber
	Check(ctx context.Context, numbers []int, sequenceNumber int) (*entities.TicketCheckResult, error)
}

// SyncService copies draws from the remote provider into the repository
type SyncService interface {
	// Sync fetches draws from the provider. When onlyNew is set it starts after the latest stored draw.
	Sync(ctx context.Context, onlyNew bool) (*entities.SyncReport, error)
}

// MetricsRecorder records domain metrics
type MetricsRecorder interface {
	RecordSyncRun(ctx context.Context, processed, inserted, failed int)
	RecordSuggestions(ctx context.Context, strategy entities.Strategy, games int)
	RecordStatisticsDuration(ctx context.Context, millis float64)
}
