package testutil

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"quina/domain/entities"

	"github.com/shopspring/decimal"
)

// CreateTestDraw creates a fully populated draw as the provider would return it
func CreateTestDraw(sequenceNumber int, inOrder ...int) *entities.Draw {
	date := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sequenceNumber)
	next := date.AddDate(0, 0, 1)

	draw := &entities.Draw{
		SequenceNumber:       sequenceNumber,
		DrawnNumbers:         sortedCopy(inOrder),
		DrawnNumbersInOrder:  inOrder,
		DrawDate:             &date,
		NextDrawDate:         &next,
		Accumulated:          sequenceNumber%2 == 0,
		AmountCollected:      decimal.NewNullDecimal(decimal.RequireFromString("12345678.90")),
		EstimatedNextPrize:   decimal.NewNullDecimal(decimal.RequireFromString("1500000.00")),
		AccumulatedNextPrize: decimal.NullDecimal{},
		DrawLocation:         "ESPAÇO DA SORTE",
		DrawCity:             "SÃO PAULO, SP",
	}
	draw.RawPayload = json.RawMessage(fmt.Sprintf(`{"numero":%d}`, sequenceNumber))
	return draw
}

// CreateTestDrawWithoutOrder creates a draw that lacks the physical draw order
func CreateTestDrawWithoutOrder(sequenceNumber int, numbers ...int) *entities.Draw {
	draw := CreateTestDraw(sequenceNumber, numbers...)
	draw.DrawnNumbersInOrder = nil
	return draw
}

func sortedCopy(numbers []int) []int {
	return slices.Sorted(slices.Values(numbers))
}
