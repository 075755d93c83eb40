package services

import (
	"context"
	"fmt"

	"quina/domain/entities"
	"quina/domain/events"
	"quina/domain/interfaces"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const syncProgressInterval = 100

// Sync report messages
const (
	SyncMessageProviderFailed = "failed to fetch latest draw from provider"
	SyncMessageUpToDate       = "database already up to date"
	SyncMessageCompleted      = "sync completed"
	SyncMessageCancelled      = "sync cancelled"
)

// syncService copies draws from the provider into the repository
type syncService struct {
	provider       interfaces.DrawProvider
	drawRepo       interfaces.DrawRepository
	eventPublisher interfaces.EventPublisher
	metrics        interfaces.MetricsRecorder
}

// NewSyncService creates a new sync service. metrics may be nil.
func NewSyncService(
	provider interfaces.DrawProvider,
	drawRepo interfaces.DrawRepository,
	eventPublisher interfaces.EventPublisher,
	metrics interfaces.MetricsRecorder,
) interfaces.SyncService {
	return &syncService{
		provider:       provider,
		drawRepo:       drawRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
	}
}

// Sync walks the provider from the start point up to its latest draw, upserting each one.
// Per-draw failures are counted, not fatal. Cancellation returns the partial report.
func (s *syncService) Sync(ctx context.Context, onlyNew bool) (*entities.SyncReport, error) {
	report := &entities.SyncReport{RunID: uuid.New().String()}
	logger := log.WithFields(log.Fields{
		"runID":   report.RunID,
		"onlyNew": onlyNew,
	})

	latest, err := s.provider.FetchLatest(ctx)
	if err != nil {
		report.Errors = 1
		report.Message = SyncMessageProviderFailed
		logger.WithError(err).Error("Failed to fetch latest draw from provider")
		return report, fmt.Errorf("failed to fetch latest draw: %w", err)
	}
	report.LatestSequence = latest.SequenceNumber

	start := 1
	if onlyNew {
		stored, err := s.drawRepo.FetchLatest(ctx)
		if err != nil {
			return report, fmt.Errorf("failed to get latest stored draw: %w", err)
		}
		if stored != nil {
			start = stored.SequenceNumber + 1
		}
	}

	if start > latest.SequenceNumber {
		report.Message = SyncMessageUpToDate
		logger.WithField("latestSequence", latest.SequenceNumber).Info("Draws already up to date")
		return report, nil
	}

	logger.WithFields(log.Fields{
		"from": start,
		"to":   latest.SequenceNumber,
	}).Info("Syncing draws from provider")

	for sequence := start; sequence <= latest.SequenceNumber; sequence++ {
		if err := ctx.Err(); err != nil {
			report.Message = SyncMessageCancelled
			s.finish(ctx, report)
			return report, err
		}

		report.Processed++
		if err := s.syncOne(ctx, sequence, latest); err != nil {
			report.Errors++
			logger.WithError(err).WithField("sequence", sequence).Warn("Failed to sync draw")
			continue
		}

		report.Inserted++
		if report.Inserted%syncProgressInterval == 0 {
			logger.WithField("inserted", report.Inserted).Info("Sync progress")
		}
	}

	report.Message = SyncMessageCompleted
	s.finish(ctx, report)
	return report, nil
}

// syncOne fetches and stores a single draw, reusing the already fetched latest
func (s *syncService) syncOne(ctx context.Context, sequence int, latest *entities.Draw) error {
	draw := latest
	if sequence != latest.SequenceNumber {
		var err error
		draw, err = s.provider.FetchBySequence(ctx, sequence)
		if err != nil {
			return fmt.Errorf("failed to fetch draw %d: %w", sequence, err)
		}
	}

	if err := s.drawRepo.Upsert(ctx, draw); err != nil {
		return fmt.Errorf("failed to store draw %d: %w", sequence, err)
	}

	s.publish(events.DrawSyncedEvent{
		SequenceNumber: draw.SequenceNumber,
		DrawnNumbers:   draw.SortedNumbers(),
		DrawDate:       draw.DrawDate,
	})
	return nil
}

func (s *syncService) finish(ctx context.Context, report *entities.SyncReport) {
	if s.metrics != nil {
		s.metrics.RecordSyncRun(ctx, report.Processed, report.Inserted, report.Errors)
	}

	s.publish(events.SyncCompletedEvent{
		RunID:          report.RunID,
		Processed:      report.Processed,
		Inserted:       report.Inserted,
		Errors:         report.Errors,
		LatestSequence: report.LatestSequence,
	})

	log.WithFields(log.Fields{
		"runID":          report.RunID,
		"processed":      report.Processed,
		"inserted":       report.Inserted,
		"errors":         report.Errors,
		"latestSequence": report.LatestSequence,
	}).Info("Draw sync finished")
}

// publish failures are logged, a sync never fails because of them
func (s *syncService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Warn("Failed to publish event")
	}
}
