package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"quina/domain/entities"
	"quina/domain/interfaces"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// ErrSyncInProgress is returned when a run is requested while another is active
var ErrSyncInProgress = errors.New("sync already in progress")

// SyncWorker runs incremental syncs on a cron schedule
type SyncWorker struct {
	syncService interfaces.SyncService
	schedule    cron.Schedule
	expression  string
	location    *time.Location
	runOnStart  bool
	running     atomic.Bool
}

// NewSyncWorker creates a sync worker. schedule is a standard 5-field cron
// expression evaluated in timezone.
func NewSyncWorker(syncService interfaces.SyncService, schedule, timezone string, runOnStart bool) (*SyncWorker, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}

	parsed, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}

	return &SyncWorker{
		syncService: syncService,
		schedule:    parsed,
		expression:  schedule,
		location:    location,
		runOnStart:  runOnStart,
	}, nil
}

// NextRun returns the next scheduled run after t
func (w *SyncWorker) NextRun(t time.Time) time.Time {
	return w.schedule.Next(t.In(w.location))
}

// Start begins the sync worker. The returned function stops the scheduler and
// waits for a running sync to finish.
func (w *SyncWorker) Start(ctx context.Context) func() {
	scheduler := cron.New(
		cron.WithLocation(w.location),
		cron.WithChain(cron.Recover(cronLogger{})),
	)
	scheduler.Schedule(w.schedule, cron.FuncJob(func() {
		w.runScheduled(ctx)
	}))

	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)

		log.WithFields(log.Fields{
			"schedule": w.expression,
			"timezone": w.location.String(),
			"nextRun":  w.NextRun(time.Now()),
		}).Info("Sync worker started")

		if w.runOnStart {
			w.runScheduled(ctx)
		}
		scheduler.Start()

		select {
		case <-ctx.Done():
			log.Info("Sync worker shutting down (context cancelled)...")
		case <-stopChan:
			log.Info("Sync worker shutting down (stop requested)...")
		}

		// Wait for in-flight jobs
		<-scheduler.Stop().Done()
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopChan) })
		<-done
	}
}

// RunOnce performs one incremental sync unless another run is active
func (w *SyncWorker) RunOnce(ctx context.Context) (*entities.SyncReport, error) {
	if !w.running.CompareAndSwap(false, true) {
		return nil, ErrSyncInProgress
	}
	defer w.running.Store(false)

	return w.syncService.Sync(ctx, true)
}

func (w *SyncWorker) runScheduled(ctx context.Context) {
	report, err := w.RunOnce(ctx)
	if errors.Is(err, ErrSyncInProgress) {
		log.Warn("Skipping scheduled sync, previous run still active")
		return
	}
	if err != nil {
		fields := log.Fields{}
		if report != nil {
			fields["runID"] = report.RunID
			fields["inserted"] = report.Inserted
		}
		log.WithFields(fields).WithError(err).Error("Scheduled sync failed")
		return
	}

	log.WithFields(log.Fields{
		"runID":          report.RunID,
		"processed":      report.Processed,
		"inserted":       report.Inserted,
		"errors":         report.Errors,
		"latestSequence": report.LatestSequence,
	}).Info(report.Message)
}

// cronLogger routes scheduler messages through logrus
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.WithFields(cronFields(keysAndValues)).Debug(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.WithFields(cronFields(keysAndValues)).WithError(err).Error(msg)
}

func cronFields(keysAndValues []interface{}) log.Fields {
	fields := log.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
