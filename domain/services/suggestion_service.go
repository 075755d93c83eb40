package services

import (
	"context"
	"fmt"
	"slices"

	"quina/domain/entities"
	"quina/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// MaxGameCount is the largest number of sets a single request may ask for
const MaxGameCount = 100

// Candidate pool sizes used by the strategies
const (
	balancedPoolSize     = 20 // top frequent and top delayed halves
	widePoolSize         = 30 // aggressive and conservative
	mixedPoolSize        = 15 // mixed first and second thirds
	mixedMidTierStart    = 15 // mixed third: frequency ranks 16-45
	mixedMidTierSize     = 30
	positionPickPoolSize = 5  // one pick per position
	positionPoolSize     = 10 // spread across positions
)

// suggestionService implements the suggestion generator
type suggestionService struct {
	statsService interfaces.StatisticsService
	minNumbers   int
	maxNumbers   int
	rng          RandomSource
	metrics      interfaces.MetricsRecorder
}

// NewSuggestionService creates a suggestion service accepting sets of minNumbers to maxNumbers
// numbers. metrics may be nil.
func NewSuggestionService(
	statsService interfaces.StatisticsService,
	minNumbers, maxNumbers int,
	metrics interfaces.MetricsRecorder,
) interfaces.SuggestionService {
	return NewSuggestionServiceWithRandom(statsService, minNumbers, maxNumbers, metrics, globalRandom{})
}

// NewSuggestionServiceWithRandom creates a suggestion service drawing from rng
func NewSuggestionServiceWithRandom(
	statsService interfaces.StatisticsService,
	minNumbers, maxNumbers int,
	metrics interfaces.MetricsRecorder,
	rng RandomSource,
) interfaces.SuggestionService {
	if maxNumbers > entities.MaxNumber {
		maxNumbers = entities.MaxNumber
	}
	return &suggestionService{
		statsService: statsService,
		minNumbers:   minNumbers,
		maxNumbers:   maxNumbers,
		rng:          rng,
		metrics:      metrics,
	}
}

// Generate validates the request, takes one statistics snapshot and produces gameCount sets
func (s *suggestionService) Generate(ctx context.Context, strategyName string, numberCount, gameCount int) (*entities.SuggestionResult, error) {
	if numberCount < s.minNumbers || numberCount > s.maxNumbers {
		return nil, entities.NewValidationError("count must be between %d and %d", s.minNumbers, s.maxNumbers)
	}
	if gameCount < 1 || gameCount > MaxGameCount {
		return nil, entities.NewValidationError("game count must be between 1 and %d", MaxGameCount)
	}
	strategy, err := entities.ParseStrategy(strategyName)
	if err != nil {
		return nil, err
	}

	// by-range only looks at the fixed bands
	stats := &entities.Statistics{}
	if strategy != entities.StrategyByRange {
		stats, err = s.statsService.ComputeStatistics(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to compute statistics: %w", err)
		}
	}

	sets := make([][]int, 0, gameCount)
	for i := 0; i < gameCount; i++ {
		numbers := s.pick(strategy, stats, numberCount)
		slices.Sort(numbers)
		sets = append(sets, numbers)
	}

	if s.metrics != nil {
		s.metrics.RecordSuggestions(ctx, strategy, gameCount)
	}
	log.WithFields(log.Fields{
		"strategy":    strategy,
		"numberCount": numberCount,
		"gameCount":   gameCount,
		"totalDraws":  stats.TotalDraws,
	}).Debug("Generated suggestions")

	return &entities.SuggestionResult{
		Strategy:    strategy,
		NumberCount: numberCount,
		GameCount:   gameCount,
		Sets:        sets,
	}, nil
}

// pick runs one invocation of the strategy's selection procedure
func (s *suggestionService) pick(strategy entities.Strategy, stats *entities.Statistics, count int) []int {
	var numbers []int
	switch strategy {
	case entities.StrategyBalanced:
		numbers = s.pickBalanced(stats, count)
	case entities.StrategyAggressive:
		numbers = s.pickFromPool(stats, stats.TopFrequent(0, widePoolSize), count)
	case entities.StrategyConservative:
		numbers = s.pickFromPool(stats, stats.TopDelayed(widePoolSize), count)
	case entities.StrategyMixed:
		numbers = s.pickMixed(stats, count)
	case entities.StrategyMostDelayed:
		numbers = s.pickMostDelayed(stats, count)
	case entities.StrategyByRange:
		numbers = s.pickByRange(count)
	case entities.StrategyByPosition:
		numbers = s.pickByPosition(stats, count)
	}
	return padWithRandom(s.rng, numbers, count)[:count]
}

func hasRankings(stats *entities.Statistics) bool {
	return len(stats.Frequency) > 0 && len(stats.Delay) > 0
}

// pickBalanced takes half from the most frequent and the rest from the most delayed
func (s *suggestionService) pickBalanced(stats *entities.Statistics, count int) []int {
	if !hasRankings(stats) {
		return uniformSample(s.rng, count)
	}

	half := count / 2
	numbers := sampleWithoutReplacement(s.rng, stats.TopFrequent(0, balancedPoolSize), half, nil)
	numbers = append(numbers, sampleWithoutReplacement(s.rng, stats.TopDelayed(balancedPoolSize), count-half, numbers)...)
	return numbers
}

func (s *suggestionService) pickFromPool(stats *entities.Statistics, pool []int, count int) []int {
	if !hasRankings(stats) {
		return uniformSample(s.rng, count)
	}
	return sampleWithoutReplacement(s.rng, pool, count, nil)
}

// pickMixed splits the set into thirds: top frequent, top delayed and the mid frequency band
func (s *suggestionService) pickMixed(stats *entities.Statistics, count int) []int {
	if !hasRankings(stats) {
		return uniformSample(s.rng, count)
	}

	first := count / 3
	second := count / 3
	third := count - first - second

	numbers := sampleWithoutReplacement(s.rng, stats.TopFrequent(0, mixedPoolSize), first, nil)
	numbers = append(numbers, sampleWithoutReplacement(s.rng, stats.TopDelayed(mixedPoolSize), second, numbers)...)
	numbers = append(numbers, sampleWithoutReplacement(s.rng, stats.TopFrequent(mixedMidTierStart, mixedMidTierSize), third, numbers)...)
	return numbers
}

func (s *suggestionService) pickMostDelayed(stats *entities.Statistics, count int) []int {
	if len(stats.Delay) == 0 {
		return uniformSample(s.rng, count)
	}
	return stats.TopDelayed(count)
}

// pickByRange spreads the set across the four bands, earliest bands taking the remainder
func (s *suggestionService) pickByRange(count int) []int {
	var numbers []int
	for i, share := range splitEvenly(count, len(entities.RangeBands)) {
		numbers = append(numbers, sampleWithoutReplacement(s.rng, entities.RangeBands[i].Numbers(), share, numbers)...)
	}
	return numbers
}

// pickByPosition favours the numbers most often drawn at each physical position
func (s *suggestionService) pickByPosition(stats *entities.Statistics, count int) []int {
	if stats.PositionsWithData() < entities.NumbersPerDraw {
		return uniformSample(s.rng, count)
	}

	var numbers []int
	if count == entities.NumbersPerDraw {
		for p := 1; p <= entities.NumbersPerDraw; p++ {
			candidates := stats.PositionTop(p, positionPickPoolSize)
			n := candidates[s.rng.IntN(len(candidates))]
			if !slices.Contains(numbers, n) {
				numbers = append(numbers, n)
			}
		}
		return numbers
	}

	for i, share := range splitEvenly(count, entities.NumbersPerDraw) {
		numbers = append(numbers, sampleWithoutReplacement(s.rng, stats.PositionTop(i+1, positionPoolSize), share, numbers)...)
	}
	return numbers
}
