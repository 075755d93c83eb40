package services

import (
	"math/rand/v2"
	"slices"

	"quina/domain/entities"
)

// RandomSource supplies uniform integers in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

// globalRandom draws from the math/rand/v2 top-level generator, which is safe for concurrent use
type globalRandom struct{}

func (globalRandom) IntN(n int) int {
	return rand.IntN(n)
}

// sampleWithoutReplacement returns up to count distinct elements of pool chosen uniformly at
// random, skipping any number already in exclude. The pool itself is not modified.
func sampleWithoutReplacement(rng RandomSource, pool []int, count int, exclude []int) []int {
	available := make([]int, 0, len(pool))
	for _, n := range pool {
		if !slices.Contains(exclude, n) && !slices.Contains(available, n) {
			available = append(available, n)
		}
	}
	if count > len(available) {
		count = len(available)
	}
	if count <= 0 {
		return nil
	}

	// Fisher-Yates shuffle (partial - only shuffle first `count` elements)
	for i := 0; i < count; i++ {
		j := i + rng.IntN(len(available)-i)
		available[i], available[j] = available[j], available[i]
	}

	return available[:count]
}

// padWithRandom appends uniformly random card numbers not yet present until numbers has target elements
func padWithRandom(rng RandomSource, numbers []int, target int) []int {
	for len(numbers) < target {
		n := entities.MinNumber + rng.IntN(entities.MaxNumber-entities.MinNumber+1)
		if !slices.Contains(numbers, n) {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

// allNumbers lists every number on the card
func allNumbers() []int {
	return entities.NumberRange{Start: entities.MinNumber, End: entities.MaxNumber}.Numbers()
}

// uniformSample draws count distinct numbers uniformly from the whole card
func uniformSample(rng RandomSource, count int) []int {
	return sampleWithoutReplacement(rng, allNumbers(), count, nil)
}

// splitEvenly divides total into parts shares, handing the remainder to the earliest parts
func splitEvenly(total, parts int) []int {
	shares := make([]int, parts)
	for i := range shares {
		shares[i] = total / parts
		if i < total%parts {
			shares[i]++
		}
	}
	return shares
}
