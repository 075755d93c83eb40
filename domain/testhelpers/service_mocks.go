package testhelpers

import (
	"context"

	"quina/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockStatisticsService is a mock implementation of StatisticsService
type MockStatisticsService struct {
	mock.Mock
}

func (m *MockStatisticsService) ComputeStatistics(ctx context.Context) (*entities.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Statistics), args.Error(1)
}

// MockSyncService is a mock implementation of SyncService
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Sync(ctx context.Context, onlyNew bool) (*entities.SyncReport, error) {
	args := m.Called(ctx, onlyNew)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SyncReport), args.Error(1)
}

// MockMetricsRecorder is a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

func (m *MockMetricsRecorder) RecordSyncRun(ctx context.Context, processed, inserted, failed int) {
	m.Called(ctx, processed, inserted, failed)
}

func (m *MockMetricsRecorder) RecordSuggestions(ctx context.Context, strategy entities.Strategy, games int) {
	m.Called(ctx, strategy, games)
}

func (m *MockMetricsRecorder) RecordStatisticsDuration(ctx context.Context, millis float64) {
	m.Called(ctx, millis)
}
