package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"quina/domain/entities"
	"quina/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const positionTopSize = 10

// statisticsService implements the aggregator over the stored draw history
type statisticsService struct {
	drawRepo interfaces.DrawRepository
	metrics  interfaces.MetricsRecorder
}

// NewStatisticsService creates a new statistics service. metrics may be nil.
func NewStatisticsService(drawRepo interfaces.DrawRepository, metrics interfaces.MetricsRecorder) interfaces.StatisticsService {
	return &statisticsService{
		drawRepo: drawRepo,
		metrics:  metrics,
	}
}

// ComputeStatistics reads the history once and assembles every aggregate
func (s *statisticsService) ComputeStatistics(ctx context.Context) (*entities.Statistics, error) {
	start := time.Now()

	draws, err := s.drawRepo.FetchAll(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draws: %w", err)
	}

	stats := BuildStatistics(draws)

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordStatisticsDuration(ctx, float64(elapsed.Microseconds())/1000)
	}
	log.WithFields(log.Fields{
		"totalDraws": stats.TotalDraws,
		"duration":   elapsed,
	}).Debug("Computed draw statistics")

	return stats, nil
}

// BuildStatistics computes every aggregate over draws ordered most recent first
func BuildStatistics(draws []*entities.Draw) *entities.Statistics {
	return &entities.Statistics{
		TotalDraws:  len(draws),
		Frequency:   CalculateFrequency(draws),
		Delay:       CalculateDelays(draws),
		Parity:      CalculateParity(draws),
		ByRange:     CalculateRanges(draws),
		ByLastDigit: CalculateLastDigits(draws),
		ByPosition:  CalculatePositions(draws),
	}
}

// CalculateFrequency counts how often each drawn number occurred. Only numbers drawn at least
// once are listed, most frequent first with ties by ascending number.
func CalculateFrequency(draws []*entities.Draw) []entities.NumberFrequency {
	if len(draws) == 0 {
		return []entities.NumberFrequency{}
	}

	counts := countNumbers(draws)
	frequency := make([]entities.NumberFrequency, 0, len(counts))
	for number, count := range counts {
		frequency = append(frequency, entities.NumberFrequency{
			Number:     number,
			Frequency:  count,
			Percentage: percentage(count, len(draws)),
		})
	}

	sort.Slice(frequency, func(i, j int) bool {
		if frequency[i].Frequency != frequency[j].Frequency {
			return frequency[i].Frequency > frequency[j].Frequency
		}
		return frequency[i].Number < frequency[j].Number
	})
	return frequency
}

// CalculateDelays returns, for every card number, how many of the most recent draws have passed
// since it was last drawn. Numbers never drawn get the total draw count.
func CalculateDelays(draws []*entities.Draw) []entities.NumberDelay {
	if len(draws) == 0 {
		return []entities.NumberDelay{}
	}

	lastSeen := make(map[int]int, entities.MaxNumber)
	for idx, draw := range draws {
		for _, n := range draw.DrawnNumbers {
			if _, seen := lastSeen[n]; !seen {
				lastSeen[n] = idx
			}
		}
	}

	delays := make([]entities.NumberDelay, 0, entities.MaxNumber)
	for n := entities.MinNumber; n <= entities.MaxNumber; n++ {
		delay, seen := lastSeen[n]
		if !seen {
			delay = len(draws)
		}
		delays = append(delays, entities.NumberDelay{Number: n, Delay: delay})
	}

	sort.SliceStable(delays, func(i, j int) bool {
		if delays[i].Delay != delays[j].Delay {
			return delays[i].Delay > delays[j].Delay
		}
		return delays[i].Number < delays[j].Number
	})
	return delays
}

// CalculateParity counts even and odd numbers across every draw
func CalculateParity(draws []*entities.Draw) entities.ParityStats {
	var parity entities.ParityStats
	for _, draw := range draws {
		for _, n := range draw.DrawnNumbers {
			if n%2 == 0 {
				parity.Even++
			} else {
				parity.Odd++
			}
		}
	}

	parity.Total = parity.Even + parity.Odd
	parity.EvenPercentage = percentage(parity.Even, parity.Total)
	parity.OddPercentage = percentage(parity.Odd, parity.Total)
	return parity
}

// CalculateRanges tallies drawn numbers into the four fixed bands
func CalculateRanges(draws []*entities.Draw) []entities.RangeBucket {
	buckets := make([]entities.RangeBucket, len(entities.RangeBands))
	for i, band := range entities.RangeBands {
		buckets[i] = entities.RangeBucket{Range: band.Label(), Start: band.Start, End: band.End}
	}

	total := 0
	for _, draw := range draws {
		for _, n := range draw.DrawnNumbers {
			for i, band := range entities.RangeBands {
				if band.Contains(n) {
					buckets[i].Count++
					total++
					break
				}
			}
		}
	}

	for i := range buckets {
		buckets[i].Percentage = percentage(buckets[i].Count, total)
	}
	return buckets
}

// CalculateLastDigits tallies drawn numbers by their final digit, always returning all ten digits
func CalculateLastDigits(draws []*entities.Draw) []entities.DigitStats {
	digits := make([]entities.DigitStats, 10)
	for d := range digits {
		digits[d].Digit = d
	}

	total := 0
	for _, draw := range draws {
		for _, n := range draw.DrawnNumbers {
			digits[n%10].Count++
			total++
		}
	}

	for d := range digits {
		digits[d].Percentage = percentage(digits[d].Count, total)
	}
	return digits
}

// CalculatePositions ranks numbers per physical draw position using only draws with a
// complete draw order. An empty history yields an empty map.
func CalculatePositions(draws []*entities.Draw) map[string]entities.PositionStats {
	positions := make(map[string]entities.PositionStats, entities.NumbersPerDraw)
	if len(draws) == 0 {
		return positions
	}

	counters := make([]map[int]int, entities.NumbersPerDraw)
	for i := range counters {
		counters[i] = make(map[int]int)
	}
	contributing := 0
	for _, draw := range draws {
		if !draw.HasDrawOrder() {
			continue
		}
		contributing++
		for idx, n := range draw.DrawnNumbersInOrder {
			counters[idx][n]++
		}
	}

	for idx, counter := range counters {
		position := idx + 1
		positions[entities.PositionKey(position)] = entities.PositionStats{
			Position:   position,
			TopNumbers: topPositionNumbers(counter, positionTopSize),
			TotalDraws: contributing,
		}
	}
	return positions
}

func topPositionNumbers(counter map[int]int, limit int) []entities.PositionFrequency {
	ranked := make([]entities.PositionFrequency, 0, len(counter))
	for number, count := range counter {
		ranked = append(ranked, entities.PositionFrequency{Number: number, Frequency: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Frequency != ranked[j].Frequency {
			return ranked[i].Frequency > ranked[j].Frequency
		}
		return ranked[i].Number < ranked[j].Number
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func countNumbers(draws []*entities.Draw) map[int]int {
	counts := make(map[int]int, entities.MaxNumber)
	for _, draw := range draws {
		for _, n := range draw.DrawnNumbers {
			counts[n]++
		}
	}
	return counts
}

// percentage returns part/whole*100 rounded to two decimals, 0 when whole is 0
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*100*100) / 100
}
