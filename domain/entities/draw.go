package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Quina game constants
const (
	MinNumber      = 1  // Smallest number on the Quina card
	MaxNumber      = 80 // Largest number on the Quina card
	NumbersPerDraw = 5  // Numbers drawn in every contest
)

// ErrDrawNotFound is returned when a draw with the requested sequence number does not exist
var ErrDrawNotFound = errors.New("draw not found")

// Draw represents one historical Quina result
type Draw struct {
	SequenceNumber       int                 `db:"sequence_number" json:"sequence_number"`
	DrawnNumbers         []int               `db:"drawn_numbers" json:"drawn_numbers"`
	DrawnNumbersInOrder  []int               `db:"drawn_numbers_in_order" json:"drawn_numbers_in_draw_order,omitempty"` // NULL for older contests
	DrawDate             *time.Time          `db:"draw_date" json:"draw_date,omitempty"`
	NextDrawDate         *time.Time          `db:"next_draw_date" json:"next_draw_date,omitempty"`
	Accumulated          bool                `db:"accumulated" json:"accumulated"`
	AmountCollected      decimal.NullDecimal `db:"amount_collected" json:"amount_collected"`
	EstimatedNextPrize   decimal.NullDecimal `db:"estimated_next_prize" json:"estimated_next_prize"`
	AccumulatedNextPrize decimal.NullDecimal `db:"accumulated_next_prize" json:"accumulated_next_prize"`
	DrawLocation         string              `db:"draw_location" json:"draw_location,omitempty"`
	DrawCity             string              `db:"draw_city" json:"draw_city,omitempty"`
	RawPayload           json.RawMessage     `db:"raw_payload" json:"raw_payload,omitempty"` // Provider document, stored unchanged
	CreatedAt            time.Time           `db:"created_at" json:"-"`
	UpdatedAt            time.Time           `db:"updated_at" json:"-"`
}

// Validate checks the draw invariants: a positive sequence number and
// exactly five distinct winning numbers in [1,80]. The draw-order list is
// optional but, when present, must hold the same numbers.
func (d *Draw) Validate() error {
	if d.SequenceNumber <= 0 {
		return fmt.Errorf("invalid sequence number %d", d.SequenceNumber)
	}
	if err := validateWinningNumbers(d.DrawnNumbers); err != nil {
		return fmt.Errorf("draw %d: %w", d.SequenceNumber, err)
	}
	if len(d.DrawnNumbersInOrder) > 0 {
		if len(d.DrawnNumbersInOrder) != NumbersPerDraw {
			return fmt.Errorf("draw %d: draw order has %d numbers", d.SequenceNumber, len(d.DrawnNumbersInOrder))
		}
		ordered := slices.Sorted(slices.Values(d.DrawnNumbersInOrder))
		if !slices.Equal(ordered, d.SortedNumbers()) {
			return fmt.Errorf("draw %d: draw order does not match drawn numbers", d.SequenceNumber)
		}
	}
	return nil
}

// HasDrawOrder reports whether the physical draw order is known
func (d *Draw) HasDrawOrder() bool {
	return len(d.DrawnNumbersInOrder) == NumbersPerDraw
}

// SortedNumbers returns the winning numbers in ascending order
func (d *Draw) SortedNumbers() []int {
	return slices.Sorted(slices.Values(d.DrawnNumbers))
}

// Contains reports whether n is one of the winning numbers
func (d *Draw) Contains(n int) bool {
	return slices.Contains(d.DrawnNumbers, n)
}

// IsValidNumber reports whether n is on the Quina card
func IsValidNumber(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

func validateWinningNumbers(numbers []int) error {
	if len(numbers) != NumbersPerDraw {
		return fmt.Errorf("expected %d drawn numbers, got %d", NumbersPerDraw, len(numbers))
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if !IsValidNumber(n) {
			return fmt.Errorf("drawn number %d out of range %d-%d", n, MinNumber, MaxNumber)
		}
		if seen[n] {
			return fmt.Errorf("duplicate drawn number %d", n)
		}
		seen[n] = true
	}
	return nil
}
