package observability

// Metric name prefixes
const (
	MetricPrefix = "quina"
)

// Metric names
const (
	// Sync metrics
	SyncDrawsProcessed = MetricPrefix + ".sync.draws.processed"
	SyncDrawsInserted  = MetricPrefix + ".sync.draws.inserted"
	SyncDrawsFailed    = MetricPrefix + ".sync.draws.failed"

	// Suggestion metrics
	SuggestionsGenerated = MetricPrefix + ".suggestions.generated"

	// Statistics metrics
	StatisticsDuration = MetricPrefix + ".statistics.duration_ms"
)

// Label keys
const (
	LabelStrategy = "strategy"
)
