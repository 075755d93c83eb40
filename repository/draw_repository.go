package repository

import (
	"context"
	"errors"
	"fmt"

	"quina/database"
	"quina/domain/entities"
	"quina/domain/interfaces"

	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const drawColumns = `
	sequence_number, drawn_numbers, drawn_numbers_in_order, draw_date, next_draw_date,
	accumulated, amount_collected, estimated_next_prize, accumulated_next_prize,
	draw_location, draw_city, raw_payload, created_at, updated_at`

// drawRepository implements draw data access on Postgres
type drawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository reading through the pool
func NewDrawRepository(db *database.DB) interfaces.DrawRepository {
	return &drawRepository{q: db.Pool}
}

// NewDrawRepositoryWithTx creates a new draw repository bound to a transaction
func NewDrawRepositoryWithTx(tx Queryable) interfaces.DrawRepository {
	return &drawRepository{q: tx}
}

// FetchAll returns draws most recent first, capped at limit when limit > 0
func (r *drawRepository) FetchAll(ctx context.Context, limit int) ([]*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws ORDER BY sequence_number DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query draws: %w", err)
	}
	defer rows.Close()

	draws := make([]*entities.Draw, 0)
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan draw: %w", err)
		}
		draws = append(draws, draw)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating draws: %w", err)
	}

	return draws, nil
}

// FetchBySequence retrieves a draw by its sequence number
func (r *drawRepository) FetchBySequence(ctx context.Context, sequenceNumber int) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE sequence_number = $1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, sequenceNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get draw %d: %w", sequenceNumber, err)
	}

	return draw, nil
}

// FetchLatest retrieves the draw with the greatest sequence number
func (r *drawRepository) FetchLatest(ctx context.Context) (*entities.Draw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws ORDER BY sequence_number DESC LIMIT 1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest draw: %w", err)
	}

	return draw, nil
}

// Upsert stores the draw, replacing every column of an existing row with the same sequence number
func (r *drawRepository) Upsert(ctx context.Context, draw *entities.Draw) error {
	if err := draw.Validate(); err != nil {
		return fmt.Errorf("invalid draw: %w", err)
	}

	payload := draw.RawPayload
	if len(payload) == 0 {
		payload = []byte(`{}`)
	}

	query := `
		INSERT INTO draws (
			sequence_number, drawn_numbers, drawn_numbers_in_order, draw_date, next_draw_date,
			accumulated, amount_collected, estimated_next_prize, accumulated_next_prize,
			draw_location, draw_city, raw_payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sequence_number) DO UPDATE SET
			drawn_numbers = EXCLUDED.drawn_numbers,
			drawn_numbers_in_order = EXCLUDED.drawn_numbers_in_order,
			draw_date = EXCLUDED.draw_date,
			next_draw_date = EXCLUDED.next_draw_date,
			accumulated = EXCLUDED.accumulated,
			amount_collected = EXCLUDED.amount_collected,
			estimated_next_prize = EXCLUDED.estimated_next_prize,
			accumulated_next_prize = EXCLUDED.accumulated_next_prize,
			draw_location = EXCLUDED.draw_location,
			draw_city = EXCLUDED.draw_city,
			raw_payload = EXCLUDED.raw_payload,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		draw.SequenceNumber,
		draw.DrawnNumbers,
		nullableNumbers(draw.DrawnNumbersInOrder),
		draw.DrawDate,
		draw.NextDrawDate,
		draw.Accumulated,
		draw.AmountCollected,
		draw.EstimatedNextPrize,
		draw.AccumulatedNextPrize,
		nullableText(draw.DrawLocation),
		nullableText(draw.DrawCity),
		payload,
	).Scan(&draw.CreatedAt, &draw.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert draw %d: %w", draw.SequenceNumber, err)
	}

	log.WithField("sequence", draw.SequenceNumber).Debug("Upserted draw")
	return nil
}

// Count returns the number of stored draws
func (r *drawRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM draws`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

// UpsertBatch stores every draw in a single transaction
func UpsertBatch(ctx context.Context, db *database.DB, draws []*entities.Draw) error {
	return db.WithTransaction(ctx, func(tx pgx.Tx) error {
		repo := NewDrawRepositoryWithTx(tx)
		for _, draw := range draws {
			if err := repo.Upsert(ctx, draw); err != nil {
				return err
			}
		}
		return nil
	})
}

func scanDraw(row pgx.Row) (*entities.Draw, error) {
	var draw entities.Draw
	var location, city *string
	err := row.Scan(
		&draw.SequenceNumber,
		&draw.DrawnNumbers,
		&draw.DrawnNumbersInOrder,
		&draw.DrawDate,
		&draw.NextDrawDate,
		&draw.Accumulated,
		&draw.AmountCollected,
		&draw.EstimatedNextPrize,
		&draw.AccumulatedNextPrize,
		&location,
		&city,
		&draw.RawPayload,
		&draw.CreatedAt,
		&draw.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if location != nil {
		draw.DrawLocation = *location
	}
	if city != nil {
		draw.DrawCity = *city
	}
	return &draw, nil
}

func nullableNumbers(numbers []int) []int {
	if len(numbers) == 0 {
		return nil
	}
	return numbers
}

func nullableText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
