package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quina/domain/entities"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	caixaDateLayout   = "02/01/2006"
	maxResponseBytes  = 1 << 20
	defaultCaixaBurst = 1
)

// ErrInvalidProviderResponse is returned when a provider document cannot be turned into a draw
var ErrInvalidProviderResponse = errors.New("invalid provider response")

// CaixaClientConfig configures the Caixa results client
type CaixaClientConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int
}

// CaixaClient implements DrawProvider over the public Caixa lottery API
type CaixaClient struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewCaixaClient creates a new Caixa client
func NewCaixaClient(cfg CaixaClientConfig) *CaixaClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}

	return &CaixaClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), defaultCaixaBurst),
	}
}

// FetchLatest retrieves the most recent published draw
func (c *CaixaClient) FetchLatest(ctx context.Context) (*entities.Draw, error) {
	return c.fetch(ctx, c.baseURL)
}

// FetchBySequence retrieves a specific published draw
func (c *CaixaClient) FetchBySequence(ctx context.Context, sequenceNumber int) (*entities.Draw, error) {
	return c.fetch(ctx, fmt.Sprintf("%s/%d", c.baseURL, sequenceNumber))
}

func (c *CaixaClient) fetch(ctx context.Context, url string) (*entities.Draw, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}

	log.WithFields(log.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Provider request completed")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d for %s", resp.StatusCode, url)
	}

	return DecodeCaixaDraw(body)
}

// DecodeCaixaDraw converts a Caixa result document into a draw. The document is kept
// unchanged as the raw payload.
func DecodeCaixaDraw(body []byte) (*entities.Draw, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidProviderResponse)
	}

	doc := gjson.ParseBytes(body)
	sequence := doc.Get("numero")
	numbers := doc.Get("listaDezenas")
	if !sequence.Exists() || !numbers.Exists() {
		return nil, fmt.Errorf("%w: missing numero or listaDezenas", ErrInvalidProviderResponse)
	}

	drawn, err := parseNumberList(numbers)
	if err != nil {
		return nil, fmt.Errorf("%w: listaDezenas: %v", ErrInvalidProviderResponse, err)
	}
	inOrder, err := parseNumberList(doc.Get("dezenasSorteadasOrdemSorteio"))
	if err != nil {
		return nil, fmt.Errorf("%w: dezenasSorteadasOrdemSorteio: %v", ErrInvalidProviderResponse, err)
	}

	draw := &entities.Draw{
		SequenceNumber:       int(sequence.Int()),
		DrawnNumbers:         drawn,
		DrawnNumbersInOrder:  inOrder,
		DrawDate:             parseCaixaDate(doc.Get("dataApuracao")),
		NextDrawDate:         parseCaixaDate(doc.Get("dataProximoConcurso")),
		Accumulated:          doc.Get("acumulado").Bool(),
		AmountCollected:      parseAmount(doc.Get("valorArrecadado")),
		EstimatedNextPrize:   parseAmount(doc.Get("valorEstimadoProximoConcurso")),
		AccumulatedNextPrize: parseAmount(doc.Get("valorAcumuladoProximoConcurso")),
		DrawLocation:         doc.Get("localSorteio").String(),
		DrawCity:             doc.Get("nomeMunicipioUFSorteio").String(),
		RawPayload:           json.RawMessage(body),
	}

	if err := draw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProviderResponse, err)
	}
	return draw, nil
}

// parseNumberList reads zero-padded string numbers ("05") or plain JSON numbers
func parseNumberList(list gjson.Result) ([]int, error) {
	if !list.Exists() || list.Type == gjson.Null {
		return nil, nil
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("expected array, got %s", list.Type)
	}

	var numbers []int
	for _, item := range list.Array() {
		n, err := strconv.Atoi(strings.TrimSpace(item.String()))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", item.String())
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

func parseCaixaDate(value gjson.Result) *time.Time {
	if value.Type != gjson.String || value.Str == "" {
		return nil
	}
	t, err := time.Parse(caixaDateLayout, value.Str)
	if err != nil {
		log.WithField("value", value.Str).Debug("Ignoring unparseable provider date")
		return nil
	}
	return &t
}

func parseAmount(value gjson.Result) decimal.NullDecimal {
	var raw string
	switch value.Type {
	case gjson.Number:
		raw = value.Raw
	case gjson.String:
		raw = value.Str
	default:
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d.Round(2))
}
