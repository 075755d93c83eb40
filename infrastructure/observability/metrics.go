package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"quina/config"
	"quina/domain/entities"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// MetricsProvider manages OpenTelemetry metrics and implements MetricsRecorder.
// Until initialized, or when disabled, every instrument is a no-op.
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	grpcConn      *grpc.ClientConn // Owned by the provider when exporting over OTLP
	initialized   bool
	mu            sync.RWMutex

	// Metric instruments
	drawsProcessedCounter  metric.Int64Counter
	drawsInsertedCounter   metric.Int64Counter
	drawsFailedCounter     metric.Int64Counter
	suggestionsCounter     metric.Int64Counter
	statisticsDurationHist metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider backed by no-op instruments
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	mp := &MetricsProvider{config: cfg}
	mp.meter = noop.NewMeterProvider().Meter(MetricPrefix)
	// No-op instruments cannot fail
	_ = mp.createInstruments()
	return mp
}

// Initialize sets up the exporter selected by configuration
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Debug("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	var exporter sdkmetric.Exporter
	var err error
	switch mp.config.OTelExporterType {
	case "stdout", "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		log.Info("Using stdout metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		conn, err := grpc.NewClient(mp.config.OTelOTLPEndpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			return fmt.Errorf("failed to connect to OTLP collector: %w", err)
		}
		exporter, err = otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			conn.Close()
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		mp.grpcConn = conn
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMillis)*time.Millisecond),
	)
	if err := mp.setup(reader); err != nil {
		return err
	}

	otel.SetMeterProvider(mp.meterProvider)
	mp.initialized = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// setup builds the SDK meter provider around reader and recreates the instruments
func (mp *MetricsProvider) setup(reader sdkmetric.Reader) error {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	mp.meter = mp.meterProvider.Meter(MetricPrefix)

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.drawsProcessedCounter, err = mp.meter.Int64Counter(
		SyncDrawsProcessed,
		metric.WithDescription("Draws requested from the provider during sync"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws processed counter: %w", err)
	}

	mp.drawsInsertedCounter, err = mp.meter.Int64Counter(
		SyncDrawsInserted,
		metric.WithDescription("Draws stored during sync"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws inserted counter: %w", err)
	}

	mp.drawsFailedCounter, err = mp.meter.Int64Counter(
		SyncDrawsFailed,
		metric.WithDescription("Draws that failed to sync"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws failed counter: %w", err)
	}

	mp.suggestionsCounter, err = mp.meter.Int64Counter(
		SuggestionsGenerated,
		metric.WithDescription("Suggestion sets generated"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create suggestions counter: %w", err)
	}

	mp.statisticsDurationHist, err = mp.meter.Float64Histogram(
		StatisticsDuration,
		metric.WithDescription("Time to read the history and compute statistics"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500),
	)
	if err != nil {
		return fmt.Errorf("failed to create statistics duration histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and shuts down the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	var err error
	if mp.meterProvider != nil {
		err = mp.meterProvider.Shutdown(ctx)
	}
	if mp.grpcConn != nil {
		if closeErr := mp.grpcConn.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close OTLP connection: %w", closeErr)
		}
		mp.grpcConn = nil
	}
	return err
}

// RecordSyncRun records the totals of one sync run
func (mp *MetricsProvider) RecordSyncRun(ctx context.Context, processed, inserted, failed int) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	mp.drawsProcessedCounter.Add(ctx, int64(processed))
	mp.drawsInsertedCounter.Add(ctx, int64(inserted))
	mp.drawsFailedCounter.Add(ctx, int64(failed))
}

// RecordSuggestions records sets generated with a strategy
func (mp *MetricsProvider) RecordSuggestions(ctx context.Context, strategy entities.Strategy, games int) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	mp.suggestionsCounter.Add(ctx, int64(games),
		metric.WithAttributes(attribute.String(LabelStrategy, string(strategy))),
	)
}

// RecordStatisticsDuration records how long a statistics computation took
func (mp *MetricsProvider) RecordStatisticsDuration(ctx context.Context, millis float64) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	mp.statisticsDurationHist.Record(ctx, millis)
}
