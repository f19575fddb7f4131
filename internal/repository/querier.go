package repository

import (
	"context"

	"github.com/plantrent/plantrent/internal/model"
)

// Querier lists every persistence operation. *Queries implements it both
// on the pool and inside a transaction.
type Querier interface {
	ListPlants(ctx context.Context) ([]*model.Plant, error)
	GetPlant(ctx context.Context, id int64) (*model.Plant, error)
	GetPlantForUpdate(ctx context.Context, id int64) (*model.Plant, error)
	CreatePlant(ctx context.Context, plant *model.Plant) error
	UpdatePlant(ctx context.Context, plant *model.Plant) error
	DeletePlant(ctx context.Context, id int64) error

	ListRenters(ctx context.Context) ([]*model.Renter, error)
	GetRenter(ctx context.Context, id int64) (*model.Renter, error)
	CreateRenter(ctx context.Context, renter *model.Renter) error

	CreateRental(ctx context.Context, rental *model.Rental) error
	ListRentalDetails(ctx context.Context) ([]model.RentalDetail, error)
	ListRentalDetailsByRenter(ctx context.Context, renterID int64) ([]model.RentalDetail, error)
}

var _ Querier = (*Queries)(nil)
