package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plantrent/plantrent/internal/model"
)

// Common errors for renter repository operations.
var (
	ErrRenterNotFound  = errors.New("renter not found")
	ErrRenterNameTaken = errors.New("renter name already exists")
)

// ListRenters returns every renter ordered by id.
func (q *Queries) ListRenters(ctx context.Context) ([]*model.Renter, error) {
	rows, err := q.db.Query(ctx, `SELECT id, name, address, city, state FROM renters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list renters: %w", err)
	}
	defer rows.Close()

	var renters []*model.Renter
	for rows.Next() {
		var r model.Renter
		if err := rows.Scan(&r.ID, &r.Name, &r.Address, &r.City, &r.State); err != nil {
			return nil, fmt.Errorf("failed to scan renter: %w", err)
		}
		renters = append(renters, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate renters: %w", err)
	}

	return renters, nil
}

// GetRenter retrieves a renter by its ID.
func (q *Queries) GetRenter(ctx context.Context, id int64) (*model.Renter, error) {
	var r model.Renter
	err := q.db.QueryRow(ctx,
		`SELECT id, name, address, city, state FROM renters WHERE id = $1`, id,
	).Scan(&r.ID, &r.Name, &r.Address, &r.City, &r.State)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRenterNotFound
		}
		return nil, fmt.Errorf("failed to get renter by ID: %w", err)
	}
	return &r, nil
}

// CreateRenter inserts a renter and sets its ID.
func (q *Queries) CreateRenter(ctx context.Context, renter *model.Renter) error {
	query := `
		INSERT INTO renters (name, address, city, state)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.db.QueryRow(ctx, query,
		renter.Name,
		renter.Address,
		renter.City,
		renter.State,
	).Scan(&renter.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrRenterNameTaken
		}
		return fmt.Errorf("failed to create renter: %w", err)
	}

	return nil
}
