package infrastructure

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCaixaDocument = `{
	"acumulado": true,
	"dataApuracao": "13/01/2024",
	"dataProximoConcurso": "15/01/2024",
	"dezenasSorteadasOrdemSorteio": ["45", "05", "67", "23", "12"],
	"listaDezenas": ["05", "12", "23", "45", "67"],
	"localSorteio": "ESPAÇO DA SORTE",
	"nomeMunicipioUFSorteio": "SÃO PAULO, SP",
	"numero": 6340,
	"tipoJogo": "QUINA",
	"valorArrecadado": 9876543.21,
	"valorEstimadoProximoConcurso": 1500000.0,
	"valorAcumuladoProximoConcurso": null
}`

func TestDecodeCaixaDraw(t *testing.T) {
	t.Parallel()

	draw, err := DecodeCaixaDraw([]byte(sampleCaixaDocument))
	require.NoError(t, err)

	assert.Equal(t, 6340, draw.SequenceNumber)
	assert.Equal(t, []int{5, 12, 23, 45, 67}, draw.DrawnNumbers)
	assert.Equal(t, []int{45, 5, 67, 23, 12}, draw.DrawnNumbersInOrder)
	require.NotNil(t, draw.DrawDate)
	assert.Equal(t, time.Date(2024, time.January, 13, 0, 0, 0, 0, time.UTC), *draw.DrawDate)
	require.NotNil(t, draw.NextDrawDate)
	assert.Equal(t, 15, draw.NextDrawDate.Day())
	assert.True(t, draw.Accumulated)
	assert.True(t, draw.AmountCollected.Decimal.Equal(decimal.RequireFromString("9876543.21")))
	assert.True(t, draw.EstimatedNextPrize.Valid)
	assert.False(t, draw.AccumulatedNextPrize.Valid)
	assert.Equal(t, "ESPAÇO DA SORTE", draw.DrawLocation)
	assert.Equal(t, "SÃO PAULO, SP", draw.DrawCity)
	assert.JSONEq(t, sampleCaixaDocument, string(draw.RawPayload))
}

func TestDecodeCaixaDraw_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"numero": `},
		{name: "missing numero", body: `{"listaDezenas": ["01","02","03","04","05"]}`},
		{name: "missing listaDezenas", body: `{"numero": 1}`},
		{name: "non numeric dezena", body: `{"numero": 1, "listaDezenas": ["01","02","xx","04","05"]}`},
		{name: "four numbers", body: `{"numero": 1, "listaDezenas": ["01","02","03","04"]}`},
		{name: "out of range", body: `{"numero": 1, "listaDezenas": ["01","02","03","04","81"]}`},
		{name: "dezenas not an array", body: `{"numero": 1, "listaDezenas": "01 02 03 04 05"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			draw, err := DecodeCaixaDraw([]byte(tt.body))
			assert.Nil(t, draw)
			assert.True(t, errors.Is(err, ErrInvalidProviderResponse), "got %v", err)
		})
	}
}

func TestDecodeCaixaDraw_OptionalFields(t *testing.T) {
	t.Parallel()

	draw, err := DecodeCaixaDraw([]byte(`{"numero": 1, "listaDezenas": [1, 2, 3, 4, 5], "dezenasSorteadasOrdemSorteio": [], "dataApuracao": "not a date"}`))
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, draw.DrawnNumbers)
	assert.Nil(t, draw.DrawnNumbersInOrder)
	assert.Nil(t, draw.DrawDate)
	assert.False(t, draw.AmountCollected.Valid)
	assert.False(t, draw.Accumulated)
}

func TestCaixaClient_Fetch(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		switch r.URL.Path {
		case "/quina", "/quina/6340":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(sampleCaixaDocument))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewCaixaClient(CaixaClientConfig{
		BaseURL:           server.URL + "/quina/",
		Timeout:           time.Second,
		RequestsPerSecond: 100,
	})
	ctx := context.Background()

	latest, err := client.FetchLatest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6340, latest.SequenceNumber)

	specific, err := client.FetchBySequence(ctx, 6340)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 12, 23, 45, 67}, specific.DrawnNumbers)

	missing, err := client.FetchBySequence(ctx, 1)
	assert.Nil(t, missing)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/quina", "/quina/6340", "/quina/1"}, paths)
}

func TestCaixaClient_ContextCancelled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCaixaDocument))
	}))
	defer server.Close()

	client := NewCaixaClient(CaixaClientConfig{BaseURL: server.URL})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	draw, err := client.FetchLatest(ctx)
	assert.Nil(t, draw)
	assert.ErrorIs(t, err, context.Canceled)
}
