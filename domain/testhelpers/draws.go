package testhelpers

import (
	"time"

	"quina/domain/entities"
)

// NewDraw builds a valid draw with the given winning numbers
func NewDraw(sequenceNumber int, numbers ...int) *entities.Draw {
	date := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sequenceNumber)
	return &entities.Draw{
		SequenceNumber: sequenceNumber,
		DrawnNumbers:   numbers,
		DrawDate:       &date,
	}
}

// NewOrderedDraw builds a draw whose draw order is the given sequence
func NewOrderedDraw(sequenceNumber int, inOrder ...int) *entities.Draw {
	draw := NewDraw(sequenceNumber, inOrder...)
	draw.DrawnNumbers = draw.SortedNumbers()
	draw.DrawnNumbersInOrder = inOrder
	return draw
}

// ExampleHistory returns five draws, most recent first, in which 12, 23 and 45 are drawn twice
func ExampleHistory() []*entities.Draw {
	return []*entities.Draw{
		NewDraw(5, 5, 12, 23, 45, 67),
		NewDraw(4, 3, 15, 28, 44, 70),
		NewDraw(3, 7, 18, 23, 50, 75),
		NewDraw(2, 2, 12, 30, 45, 68),
		NewDraw(1, 8, 20, 25, 48, 72),
	}
}
