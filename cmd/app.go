package cmd

import (
	"context"
	"fmt"
	"time"

	"quina/config"
	"quina/database"
	"quina/domain/events"
	"quina/domain/interfaces"
	"quina/domain/services"
	"quina/infrastructure"
	"quina/infrastructure/observability"
	"quina/repository"

	log "github.com/sirupsen/logrus"
)

// App holds the services the commands run against
type App struct {
	Config      *config.Config
	Draws       interfaces.DrawRepository
	Statistics  interfaces.StatisticsService
	Suggestions interfaces.SuggestionService
	Tickets     interfaces.TicketService
	Sync        interfaces.SyncService

	closers []func()
}

// AppFactory builds an App for one command invocation
type AppFactory func(ctx context.Context, cfg *config.Config) (*App, error)

// Close releases resources in reverse order of acquisition
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) onClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Bootstrap connects to Postgres, the provider and NATS and wires the services
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	metrics := observability.NewMetricsProvider(cfg)
	if err := metrics.Initialize(ctx); err != nil {
		log.WithError(err).Warn("Failed to initialize metrics, continuing without export")
	}
	app.onClose(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("Failed to shut down metrics provider")
		}
	})

	log.Debug("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.onClose(db.Close)
	log.Debug("Database connection established successfully")

	drawRepo := repository.NewDrawRepository(db)
	publisher := newEventPublisher(ctx, cfg, app)
	provider := infrastructure.NewCaixaClient(infrastructure.CaixaClientConfig{
		BaseURL:           cfg.ProviderURL,
		Timeout:           cfg.ProviderTimeout,
		RequestsPerSecond: cfg.ProviderRequestsPerSecond,
	})

	app.Draws = drawRepo
	app.Statistics = services.NewStatisticsService(drawRepo, metrics)
	app.Suggestions = services.NewSuggestionService(app.Statistics, cfg.MinSuggestionNumbers, cfg.MaxSuggestionNumbers, metrics)
	app.Tickets = services.NewTicketService(drawRepo)
	app.Sync = services.NewSyncService(provider, drawRepo, publisher, metrics)

	return app, nil
}

// newEventPublisher returns a NATS publisher, or a no-op one when NATS is not configured or unreachable
func newEventPublisher(ctx context.Context, cfg *config.Config, app *App) interfaces.EventPublisher {
	if cfg.NATSServers == "" {
		log.Debug("NATS_SERVERS not set, event publishing disabled")
		return infrastructure.NewNoopEventPublisher()
	}

	client := infrastructure.NewNATSClient(cfg.NATSServers, cfg.NATSJetStream)
	if err := client.Connect(ctx); err != nil {
		log.WithError(err).Warn("Failed to connect to NATS, event publishing disabled")
		return infrastructure.NewNoopEventPublisher()
	}
	app.onClose(func() {
		if err := client.Close(); err != nil {
			log.WithError(err).Warn("Failed to close NATS connection")
		}
	})

	publisher := infrastructure.NewNATSEventPublisher(client, infrastructure.NewEventSubjectMapper())
	publisher.RegisterLocalHandler(events.EventTypeDrawSynced, logDrawSynced)
	return publisher
}

func logDrawSynced(_ context.Context, event events.Event) error {
	synced, ok := event.(events.DrawSyncedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	log.WithFields(log.Fields{
		"sequence": synced.SequenceNumber,
		"numbers":  synced.DrawnNumbers,
	}).Debug("Draw synced")
	return nil
}
