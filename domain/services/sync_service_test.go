package services

import (
	"context"
	"errors"
	"testing"

	"quina/domain/entities"
	"quina/domain/events"
	"quina/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type syncMocks struct {
	provider  *testhelpers.MockDrawProvider
	drawRepo  *testhelpers.MockDrawRepository
	publisher *testhelpers.MockEventPublisher
	metrics   *testhelpers.MockMetricsRecorder
}

func newSyncServiceForTest() (*syncMocks, *syncService) {
	mocks := &syncMocks{
		provider:  new(testhelpers.MockDrawProvider),
		drawRepo:  new(testhelpers.MockDrawRepository),
		publisher: new(testhelpers.MockEventPublisher),
		metrics:   new(testhelpers.MockMetricsRecorder),
	}
	service := NewSyncService(mocks.provider, mocks.drawRepo, mocks.publisher, mocks.metrics).(*syncService)
	return mocks, service
}

func TestSync_OnlyNew(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mocks, service := newSyncServiceForTest()

	latest := testhelpers.NewDraw(13, 1, 2, 3, 4, 5)
	mocks.provider.On("FetchLatest", ctx).Return(latest, nil)
	mocks.drawRepo.On("FetchLatest", ctx).Return(testhelpers.NewDraw(10, 6, 7, 8, 9, 10), nil)
	mocks.provider.On("FetchBySequence", ctx, 11).Return(testhelpers.NewDraw(11, 11, 12, 13, 14, 15), nil)
	mocks.provider.On("FetchBySequence", ctx, 12).Return(testhelpers.NewDraw(12, 16, 17, 18, 19, 20), nil)
	mocks.drawRepo.On("Upsert", ctx, mock.AnythingOfType("*entities.Draw")).Return(nil).Times(3)
	mocks.publisher.On("Publish", mock.AnythingOfType("events.DrawSyncedEvent")).Return(nil).Times(3)
	mocks.publisher.On("Publish", mock.MatchedBy(func(e events.SyncCompletedEvent) bool {
		return e.Processed == 3 && e.Inserted == 3 && e.Errors == 0 && e.LatestSequence == 13
	})).Return(nil).Once()
	mocks.metrics.On("RecordSyncRun", ctx, 3, 3, 0).Once()

	report, err := service.Sync(ctx, true)

	require.NoError(t, err)
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, 3, report.Inserted)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, 13, report.LatestSequence)
	assert.Equal(t, SyncMessageCompleted, report.Message)

	// The latest draw is reused instead of fetched twice
	mocks.provider.AssertNotCalled(t, "FetchBySequence", ctx, 13)
	mocks.drawRepo.AssertCalled(t, "Upsert", ctx, latest)
	mocks.provider.AssertExpectations(t)
	mocks.drawRepo.AssertExpectations(t)
	mocks.publisher.AssertExpectations(t)
	mocks.metrics.AssertExpectations(t)
}

func TestSync_FullStartsAtOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mocks, service := newSyncServiceForTest()

	mocks.provider.On("FetchLatest", ctx).Return(testhelpers.NewDraw(2, 1, 2, 3, 4, 5), nil)
	mocks.provider.On("FetchBySequence", ctx, 1).Return(testhelpers.NewDraw(1, 6, 7, 8, 9, 10), nil)
	mocks.drawRepo.On("Upsert", ctx, mock.Anything).Return(nil)
	mocks.publisher.On("Publish", mock.Anything).Return(nil)
	mocks.metrics.On("RecordSyncRun", ctx, 2, 2, 0)

	report, err := service.Sync(ctx, false)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Inserted)
	mocks.drawRepo.AssertNotCalled(t, "FetchLatest", mock.Anything)
}

func TestSync_EmptyStoreStartsAtOne(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mocks, service := newSyncServiceForTest()

	mocks.provider.On("FetchLatest", ctx).Return(testhelpers.NewDraw(1, 1, 2, 3, 4, 5), nil)
	mocks.drawRepo.On("FetchLatest", ctx).Return(nil, nil)
	mocks.drawRepo.On("Upsert", ctx, mock.Anything).Return(nil).Once()
	mocks.publisher.On("Publish", mock.Anything).Return(nil)
	mocks.metrics.On("RecordSyncRun", ctx, 1, 1, 0)

	report, err := service.Sync(ctx, true)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Equal(t, 1, report.Inserted)
}

func TestSync_AlreadyUpToDate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mocks, service := newSyncServiceForTest()

	mocks.provider.On("FetchLatest", ctx).Return(testhelpers.NewDraw(10, 1, 2, 3, 4, 5), nil)
	mocks.drawRepo.On("FetchLatest", ctx).Return(testhelpers.NewDraw(10, 1, 2, 3, 4, 5), nil)

	report, err := service.Sync(ctx, true)

	require.NoError(t, err)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 10, report.LatestSequence)
	assert.Equal(t, SyncMessageUpToDate, report.Message)
	mocks.drawRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	mocks.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestSync_ProviderFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mocks, service := newSyncServiceForTest()
	mocks.provider.On("FetchLatest", ctx).Return(nil, errors.New("503 service unavailable"))

	report, err := service.Sync(ctx, true)

	require.Error(t, err)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, SyncMessageProviderFailed, report.Message)
}

func TestSync_PerDrawFailuresAreCounted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mocks, service := newSyncServiceForTest()

	mocks.provider.On("FetchLatest", ctx).Return(testhelpers.NewDraw(4, 1, 2, 3, 4, 5), nil)
	mocks.provider.On("FetchBySequence", ctx, 1).Return(testhelpers.NewDraw(1, 6, 7, 8, 9, 10), nil)
	mocks.provider.On("FetchBySequence", ctx, 2).Return(nil, errors.New("timeout"))
	mocks.provider.On("FetchBySequence", ctx, 3).Return(testhelpers.NewDraw(3, 11, 12, 13, 14, 15), nil)
	mocks.drawRepo.On("Upsert", ctx, mock.MatchedBy(func(d *entities.Draw) bool { return d.SequenceNumber == 3 })).Return(errors.New("constraint violation"))
	mocks.drawRepo.On("Upsert", ctx, mock.Anything).Return(nil)
	mocks.publisher.On("Publish", mock.Anything).Return(errors.New("nats down"))
	mocks.metrics.On("RecordSyncRun", ctx, 4, 2, 2).Once()

	report, err := service.Sync(ctx, false)

	require.NoError(t, err)
	assert.Equal(t, 4, report.Processed)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 2, report.Errors)
	mocks.metrics.AssertExpectations(t)
}

func TestSync_Cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	mocks, service := newSyncServiceForTest()

	mocks.provider.On("FetchLatest", ctx).Return(testhelpers.NewDraw(100, 1, 2, 3, 4, 5), nil)
	mocks.provider.On("FetchBySequence", ctx, 1).Return(testhelpers.NewDraw(1, 6, 7, 8, 9, 10), nil)
	mocks.provider.On("FetchBySequence", ctx, 2).Run(func(mock.Arguments) { cancel() }).Return(testhelpers.NewDraw(2, 11, 12, 13, 14, 15), nil)
	mocks.drawRepo.On("Upsert", ctx, mock.Anything).Return(nil)
	mocks.publisher.On("Publish", mock.Anything).Return(nil)
	mocks.metrics.On("RecordSyncRun", ctx, 2, 2, 0).Once()

	report, err := service.Sync(ctx, false)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, SyncMessageCancelled, report.Message)
	mocks.provider.AssertNotCalled(t, "FetchBySequence", ctx, 3)
}
