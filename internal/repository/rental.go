package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plantrent/plantrent/internal/model"
)

// ErrRentalReference is returned when a rental points at a missing plant or renter.
var ErrRentalReference = errors.New("rental references a missing plant or renter")

const rentalDetailQuery = `
	SELECT r.id, p.id, p.name, p.price, rt.id, rt.name
	FROM rentals r
	JOIN plants p ON p.id = r.plant_id
	JOIN renters rt ON rt.id = r.renter_id
`

// CreateRental links a plant to a renter and sets the rental ID.
func (q *Queries) CreateRental(ctx context.Context, rental *model.Rental) error {
	err := q.db.QueryRow(ctx,
		`INSERT INTO rentals (plant_id, renter_id) VALUES ($1, $2) RETURNING id`,
		rental.PlantID, rental.RenterID,
	).Scan(&rental.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrRentalReference
		}
		return fmt.Errorf("failed to create rental: %w", err)
	}
	return nil
}

// ListRentalDetails returns every rental joined with its plant and renter.
func (q *Queries) ListRentalDetails(ctx context.Context) ([]model.RentalDetail, error) {
	rows, err := q.db.Query(ctx, rentalDetailQuery+` ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	return collectRentalDetails(rows)
}

// ListRentalDetailsByRenter returns one renter's rentals.
func (q *Queries) ListRentalDetailsByRenter(ctx context.Context, renterID int64) ([]model.RentalDetail, error) {
	rows, err := q.db.Query(ctx, rentalDetailQuery+` WHERE r.renter_id = $1 ORDER BY r.id`, renterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals for renter: %w", err)
	}
	return collectRentalDetails(rows)
}

func collectRentalDetails(rows pgx.Rows) ([]model.RentalDetail, error) {
	defer rows.Close()

	var details []model.RentalDetail
	for rows.Next() {
		var d model.RentalDetail
		if err := rows.Scan(&d.RentalID, &d.PlantID, &d.PlantName, &d.PlantPrice, &d.RenterID, &d.RenterName); err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rentals: %w", err)
	}

	return details, nil
}
