package services

import (
	"context"
	"fmt"
	"slices"

	"quina/domain/entities"
	"quina/domain/interfaces"
)

// ticketService checks played numbers against stored draws
type ticketService struct {
	drawRepo interfaces.DrawRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(drawRepo interfaces.DrawRepository) interfaces.TicketService {
	return &ticketService{drawRepo: drawRepo}
}

// Check compares numbers with the draw identified by sequenceNumber
func (s *ticketService) Check(ctx context.Context, numbers []int, sequenceNumber int) (*entities.TicketCheckResult, error) {
	if err := validateTicket(numbers); err != nil {
		return nil, err
	}
	if sequenceNumber <= 0 {
		return nil, entities.NewValidationError("sequence number must be positive")
	}

	draw, err := s.drawRepo.FetchBySequence(ctx, sequenceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", sequenceNumber, err)
	}
	if draw == nil {
		return nil, fmt.Errorf("draw %d: %w", sequenceNumber, entities.ErrDrawNotFound)
	}

	played := slices.Sorted(slices.Values(numbers))
	hits := make([]int, 0, entities.NumbersPerDraw)
	for _, n := range played {
		if draw.Contains(n) {
			hits = append(hits, n)
		}
	}

	return &entities.TicketCheckResult{
		SequenceNumber: draw.SequenceNumber,
		Numbers:        played,
		DrawnNumbers:   draw.SortedNumbers(),
		Hits:           hits,
		HitCount:       len(hits),
		PrizeTier:      entities.PrizeTierForHits(len(hits)),
	}, nil
}

func validateTicket(numbers []int) error {
	if len(numbers) == 0 {
		return entities.NewValidationError("ticket must have at least one number")
	}
	if len(numbers) > entities.MaxNumber {
		return entities.NewValidationError("ticket cannot have more than %d numbers", entities.MaxNumber)
	}
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if !entities.IsValidNumber(n) {
			return entities.NewValidationError("number %d must be between %d and %d", n, entities.MinNumber, entities.MaxNumber)
		}
		if seen[n] {
			return entities.NewValidationError("duplicate number %d", n)
		}
		seen[n] = true
	}
	return nil
}
