package repository

import (
	"context"
	"encoding/json"
	"testing"

	"quina/domain/entities"
	"quina/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawRepository_EmptyStore(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	draws, err := repo.FetchAll(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, draws)
	assert.Empty(t, draws)

	latest, err := repo.FetchLatest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	draw, err := repo.FetchBySequence(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, draw)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDrawRepository_UpsertAndFetch(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	t.Run("round trip of every column", func(t *testing.T) {
		testDB.Truncate(t)
		want := testutil.CreateTestDraw(6500, 45, 5, 67, 23, 12)

		require.NoError(t, repo.Upsert(ctx, want))
		assert.False(t, want.CreatedAt.IsZero())

		got, err := repo.FetchBySequence(ctx, 6500)
		require.NoError(t, err)
		require.NotNil(t, got)

		assert.Equal(t, 6500, got.SequenceNumber)
		assert.Equal(t, []int{5, 12, 23, 45, 67}, got.DrawnNumbers)
		assert.Equal(t, []int{45, 5, 67, 23, 12}, got.DrawnNumbersInOrder)
		require.NotNil(t, got.DrawDate)
		assert.True(t, want.DrawDate.Equal(*got.DrawDate), "draw date %v", got.DrawDate)
		require.NotNil(t, got.NextDrawDate)
		assert.True(t, want.NextDrawDate.Equal(*got.NextDrawDate))
		assert.Equal(t, want.Accumulated, got.Accumulated)
		assert.True(t, got.AmountCollected.Valid)
		assert.True(t, want.AmountCollected.Decimal.Equal(got.AmountCollected.Decimal))
		assert.True(t, want.EstimatedNextPrize.Decimal.Equal(got.EstimatedNextPrize.Decimal))
		assert.False(t, got.AccumulatedNextPrize.Valid)
		assert.Equal(t, "ESPAÇO DA SORTE", got.DrawLocation)
		assert.Equal(t, "SÃO PAULO, SP", got.DrawCity)
		assert.JSONEq(t, `{"numero":6500}`, string(got.RawPayload))
	})

	t.Run("draw without order stores null", func(t *testing.T) {
		testDB.Truncate(t)
		draw := testutil.CreateTestDrawWithoutOrder(10, 1, 2, 3, 4, 5)
		draw.DrawLocation = ""
		draw.RawPayload = nil

		require.NoError(t, repo.Upsert(ctx, draw))

		got, err := repo.FetchBySequence(ctx, 10)
		require.NoError(t, err)
		assert.Nil(t, got.DrawnNumbersInOrder)
		assert.False(t, got.HasDrawOrder())
		assert.Empty(t, got.DrawLocation)
		assert.JSONEq(t, `{}`, string(got.RawPayload))
	})

	t.Run("upsert fully replaces the stored draw", func(t *testing.T) {
		testDB.Truncate(t)
		original := testutil.CreateTestDraw(20, 1, 2, 3, 4, 5)
		require.NoError(t, repo.Upsert(ctx, original))

		replacement := testutil.CreateTestDrawWithoutOrder(20, 10, 20, 30, 40, 50)
		replacement.AmountCollected = decimal.NullDecimal{}
		replacement.DrawCity = ""
		replacement.RawPayload = json.RawMessage(`{"numero":20,"acumulado":true}`)
		require.NoError(t, repo.Upsert(ctx, replacement))

		got, err := repo.FetchBySequence(ctx, 20)
		require.NoError(t, err)
		assert.Equal(t, []int{10, 20, 30, 40, 50}, got.DrawnNumbers)
		assert.Nil(t, got.DrawnNumbersInOrder)
		assert.False(t, got.AmountCollected.Valid)
		assert.Empty(t, got.DrawCity)
		assert.JSONEq(t, `{"numero":20,"acumulado":true}`, string(got.RawPayload))
		assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("invalid draw is rejected before writing", func(t *testing.T) {
		testDB.Truncate(t)
		draw := testutil.CreateTestDraw(30, 1, 2, 3, 4, 5)
		draw.DrawnNumbers = []int{1, 2, 3, 4, 81}

		err := repo.Upsert(ctx, draw)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid draw")

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestDrawRepository_Ordering(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewDrawRepository(testDB.DB)
	ctx := context.Background()

	// Insert out of order
	for _, seq := range []int{3, 1, 5, 2, 4} {
		require.NoError(t, repo.Upsert(ctx, testutil.CreateTestDraw(seq, seq, seq+10, seq+20, seq+30, seq+40)))
	}

	t.Run("most recent first", func(t *testing.T) {
		draws, err := repo.FetchAll(ctx, 0)
		require.NoError(t, err)
		require.Len(t, draws, 5)
		for i, draw := range draws {
			assert.Equal(t, 5-i, draw.SequenceNumber)
		}
	})

	t.Run("limit caps results", func(t *testing.T) {
		draws, err := repo.FetchAll(ctx, 2)
		require.NoError(t, err)
		require.Len(t, draws, 2)
		assert.Equal(t, 5, draws[0].SequenceNumber)
		assert.Equal(t, 4, draws[1].SequenceNumber)
	})

	t.Run("latest", func(t *testing.T) {
		latest, err := repo.FetchLatest(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, 5, latest.SequenceNumber)
	})
}

func TestUpsertBatch(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()
	repo := NewDrawRepository(testDB.DB)

	t.Run("commits every draw", func(t *testing.T) {
		testDB.Truncate(t)
		draws := []*entities.Draw{
			testutil.CreateTestDraw(1, 1, 2, 3, 4, 5),
			testutil.CreateTestDraw(2, 6, 7, 8, 9, 10),
		}

		require.NoError(t, UpsertBatch(ctx, testDB.DB, draws))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("rolls back on invalid draw", func(t *testing.T) {
		testDB.Truncate(t)
		bad := testutil.CreateTestDraw(4, 1, 2, 3, 4, 5)
		bad.DrawnNumbers = []int{1, 1, 2, 3, 4}
		draws := []*entities.Draw{
			testutil.CreateTestDraw(3, 1, 2, 3, 4, 5),
			bad,
		}

		require.Error(t, UpsertBatch(ctx, testDB.DB, draws))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
