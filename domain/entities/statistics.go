package entities

import "fmt"

// NumberFrequency is how often a number was drawn across the history
type NumberFrequency struct {
	Number     int     `json:"number"`
	Frequency  int     `json:"frequency"`
	Percentage float64 `json:"percentage"` // frequency / total draws * 100
}

// NumberDelay is how many of the most recent draws a number has missed
type NumberDelay struct {
	Number int `json:"number"`
	Delay  int `json:"delay"` // 0 = drawn in the latest contest, total draws = never drawn
}

// ParityStats counts even and odd numbers over every drawn number
type ParityStats struct {
	Even           int     `json:"even"`
	Odd            int     `json:"odd"`
	Total          int     `json:"total"`
	EvenPercentage float64 `json:"even_percentage"`
	OddPercentage  float64 `json:"odd_percentage"`
}

// NumberRange is a contiguous band of the card
type NumberRange struct {
	Start int
	End   int
}

// RangeBands are the four fixed bands of twenty numbers
var RangeBands = []NumberRange{
	{Start: 1, End: 20},
	{Start: 21, End: 40},
	{Start: 41, End: 60},
	{Start: 61, End: 80},
}

// Label formats the band as "01-20"
func (r NumberRange) Label() string {
	return fmt.Sprintf("%02d-%02d", r.Start, r.End)
}

// Contains reports whether n falls inside the band
func (r NumberRange) Contains(n int) bool {
	return n >= r.Start && n <= r.End
}

// Numbers lists every number of the band in ascending order
func (r NumberRange) Numbers() []int {
	numbers := make([]int, 0, r.End-r.Start+1)
	for n := r.Start; n <= r.End; n++ {
		numbers = append(numbers, n)
	}
	return numbers
}

// RangeBucket is the tally of one band
type RangeBucket struct {
	Range      string  `json:"range"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DigitStats is the tally of numbers ending in one digit
type DigitStats struct {
	Digit      int     `json:"digit"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PositionFrequency is how often a number was drawn at one position
type PositionFrequency struct {
	Number    int `json:"number"`
	Frequency int `json:"frequency"`
}

// PositionStats summarizes one physical draw position
type PositionStats struct {
	Position   int                 `json:"position"`
	TopNumbers []PositionFrequency `json:"top_numbers"` // At most 10, most frequent first
	TotalDraws int                 `json:"total_draws"` // Draws contributing to this position
}

// PositionKey is the by_position map key for position p (1-based)
func PositionKey(p int) string {
	return fmt.Sprintf("position_%d", p)
}

// Statistics is the composite of every aggregate over the stored history
type Statistics struct {
	TotalDraws  int                      `json:"total_draws"`
	Frequency   []NumberFrequency        `json:"frequency"`
	Delay       []NumberDelay            `json:"delay"`
	Parity      ParityStats              `json:"parity"`
	ByRange     []RangeBucket            `json:"by_range"`
	ByLastDigit []DigitStats             `json:"by_last_digit"`
	ByPosition  map[string]PositionStats `json:"by_position"`
}

// IsEmpty returns true when the statistics were computed over no draws
func (s *Statistics) IsEmpty() bool {
	return s.TotalDraws == 0
}

// TopFrequent returns up to n numbers from the frequency ranking starting at rank offset (0-based)
func (s *Statistics) TopFrequent(offset, n int) []int {
	numbers := make([]int, 0, n)
	for i := offset; i < len(s.Frequency) && len(numbers) < n; i++ {
		numbers = append(numbers, s.Frequency[i].Number)
	}
	return numbers
}

// TopDelayed returns up to n numbers with the largest delay
func (s *Statistics) TopDelayed(n int) []int {
	numbers := make([]int, 0, n)
	for i := 0; i < len(s.Delay) && len(numbers) < n; i++ {
		numbers = append(numbers, s.Delay[i].Number)
	}
	return numbers
}

// PositionTop returns up to n of the most frequent numbers at position p,
// or nil when the position has no data
func (s *Statistics) PositionTop(p, n int) []int {
	stats, ok := s.ByPosition[PositionKey(p)]
	if !ok || len(stats.TopNumbers) == 0 {
		return nil
	}
	numbers := make([]int, 0, n)
	for i := 0; i < len(stats.TopNumbers) && len(numbers) < n; i++ {
		numbers = append(numbers, stats.TopNumbers[i].Number)
	}
	return numbers
}

// PositionsWithData counts positions that have at least one ranked number
func (s *Statistics) PositionsWithData() int {
	count := 0
	for p := 1; p <= NumbersPerDraw; p++ {
		if stats, ok := s.ByPosition[PositionKey(p)]; ok && len(stats.TopNumbers) > 0 {
			count++
		}
	}
	return count
}

// FrequencyOf returns how often n was drawn, 0 if never
func (s *Statistics) FrequencyOf(n int) int {
	for _, f := range s.Frequency {
		if f.Number == n {
			return f.Frequency
		}
	}
	return 0
}
