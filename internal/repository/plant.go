package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/plantrent/plantrent/internal/model"
)

// Common errors for plant repository operations.
var (
	ErrPlantNotFound  = errors.New("plant not found")
	ErrPlantNameTaken = errors.New("plant name already exists")
	ErrPlantInUse     = errors.New("plant has rentals")
)

const plantColumns = `id, name, description, quantity, price`

// ListPlants returns the whole catalog ordered by id.
func (q *Queries) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	rows, err := q.db.Query(ctx, `SELECT `+plantColumns+` FROM plants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	defer rows.Close()

	var plants []*model.Plant
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plant: %w", err)
		}
		plants = append(plants, plant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plants: %w", err)
	}

	return plants, nil
}

// GetPlant retrieves a plant by its ID.
func (q *Queries) GetPlant(ctx context.Context, id int64) (*model.Plant, error) {
	return q.getPlant(ctx, `SELECT `+plantColumns+` FROM plants WHERE id = $1`, id)
}

// GetPlantForUpdate retrieves a plant and locks its row until the
// surrounding transaction ends.
func (q *Queries) GetPlantForUpdate(ctx context.Context, id int64) (*model.Plant, error) {
	return q.getPlant(ctx, `SELECT `+plantColumns+` FROM plants WHERE id = $1 FOR UPDATE`, id)
}

func (q *Queries) getPlant(ctx context.Context, query string, id int64) (*model.Plant, error) {
	plant, err := scanPlant(q.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlantNotFound
		}
		return nil, fmt.Errorf("failed to get plant by ID: %w", err)
	}
	return plant, nil
}

// CreatePlant inserts a plant and sets its ID.
func (q *Queries) CreatePlant(ctx context.Context, plant *model.Plant) error {
	query := `
		INSERT INTO plants (name, description, quantity, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.db.QueryRow(ctx, query,
		plant.Name,
		plant.Description,
		plant.Quantity,
		plant.Price,
	).Scan(&plant.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPlantNameTaken
		}
		return fmt.Errorf("failed to create plant: %w", err)
	}

	return nil
}

// UpdatePlant overwrites every column of an existing plant.
func (q *Queries) UpdatePlant(ctx context.Context, plant *model.Plant) error {
	query := `
		UPDATE plants
		SET name = $2, description = $3, quantity = $4, price = $5
		WHERE id = $1
	`

	tag, err := q.db.Exec(ctx, query,
		plant.ID,
		plant.Name,
		plant.Description,
		plant.Quantity,
		plant.Price,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPlantNameTaken
		}
		return fmt.Errorf("failed to update plant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlantNotFound
	}

	return nil
}

// DeletePlant removes a plant. Plants that are still rented cannot be removed.
func (q *Queries) DeletePlant(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrPlantInUse
		}
		return fmt.Errorf("failed to delete plant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlantNotFound
	}

	return nil
}

func scanPlant(row pgx.Row) (*model.Plant, error) {
	var p model.Plant
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.Price); err != nil {
		return nil, err
	}
	return &p, nil
}
