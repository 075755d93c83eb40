package services

import (
	"context"
	"errors"
	"testing"

	"quina/domain/entities"
	"quina/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTicketService_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		numbers      []int
		expectedHits []int
		expectedTier entities.PrizeTier
	}{
		{name: "quina", numbers: []int{67, 45, 23, 12, 5}, expectedHits: []int{5, 12, 23, 45, 67}, expectedTier: entities.PrizeTierQuina},
		{name: "quadra", numbers: []int{5, 12, 23, 45, 80}, expectedHits: []int{5, 12, 23, 45}, expectedTier: entities.PrizeTierQuadra},
		{name: "terno with larger ticket", numbers: []int{1, 2, 3, 5, 12, 23, 70, 71}, expectedHits: []int{5, 12, 23}, expectedTier: entities.PrizeTierTerno},
		{name: "duque", numbers: []int{5, 67, 1, 2, 3}, expectedHits: []int{5, 67}, expectedTier: entities.PrizeTierDuque},
		{name: "single hit", numbers: []int{5, 1, 2, 3, 4}, expectedHits: []int{5}, expectedTier: entities.PrizeTierNone},
		{name: "no hits", numbers: []int{1, 2, 3, 4, 6}, expectedHits: []int{}, expectedTier: entities.PrizeTierNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			drawRepo := new(testhelpers.MockDrawRepository)
			drawRepo.On("FetchBySequence", ctx, 6000).Return(testhelpers.NewDraw(6000, 45, 5, 67, 23, 12), nil)

			result, err := NewTicketService(drawRepo).Check(ctx, tt.numbers, 6000)

			require.NoError(t, err)
			assert.Equal(t, 6000, result.SequenceNumber)
			assert.Equal(t, []int{5, 12, 23, 45, 67}, result.DrawnNumbers)
			assert.Equal(t, tt.expectedHits, result.Hits)
			assert.Equal(t, len(tt.expectedHits), result.HitCount)
			assert.Equal(t, tt.expectedTier, result.PrizeTier)
			assert.Len(t, result.Numbers, len(tt.numbers))
		})
	}
}

func TestTicketService_Check_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		numbers  []int
		sequence int
		message  string
	}{
		{name: "empty ticket", numbers: nil, sequence: 1, message: "at least one number"},
		{name: "out of range", numbers: []int{1, 2, 3, 4, 81}, sequence: 1, message: "number 81 must be between 1 and 80"},
		{name: "duplicate", numbers: []int{1, 2, 2, 4, 5}, sequence: 1, message: "duplicate number 2"},
		{name: "invalid sequence", numbers: []int{1, 2, 3, 4, 5}, sequence: 0, message: "sequence number must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			drawRepo := new(testhelpers.MockDrawRepository)
			result, err := NewTicketService(drawRepo).Check(context.Background(), tt.numbers, tt.sequence)

			assert.Nil(t, result)
			var validationErr *entities.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Contains(t, validationErr.Message, tt.message)
			drawRepo.AssertNotCalled(t, "FetchBySequence", mock.Anything, mock.Anything)
		})
	}
}

func TestTicketService_Check_DrawNotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	drawRepo := new(testhelpers.MockDrawRepository)
	drawRepo.On("FetchBySequence", ctx, 42).Return(nil, nil)

	result, err := NewTicketService(drawRepo).Check(ctx, []int{1, 2, 3, 4, 5}, 42)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, entities.ErrDrawNotFound)
}

func TestTicketService_Check_RepositoryError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	drawRepo := new(testhelpers.MockDrawRepository)
	drawRepo.On("FetchBySequence", ctx, 42).Return(nil, errors.New("timeout"))

	result, err := NewTicketService(drawRepo).Check(ctx, []int{1, 2, 3, 4, 5}, 42)

	assert.Nil(t, result)
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrDrawNotFound)
	assert.Contains(t, err.Error(), "failed to get draw 42")
}
