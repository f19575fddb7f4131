// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"

	"github.com/plantrent/plantrent/internal/repository"
)

// Service errors.
var (
	ErrPlantNotFound  = errors.New("plant not found")
	ErrRenterNotFound = errors.New("renter not found")
	ErrInvalidPlant   = errors.New("invalid plant")
	ErrPlantNameTaken = errors.New("plant name already exists")
	ErrPlantInUse     = errors.New("plant has rentals")
)

// Store is the persistence the services need, with explicit transaction scoping.
type Store interface {
	repository.Querier
	WithTx(ctx context.Context, fn func(q repository.Querier) error) error
	WithReadOnlyTx(ctx context.Context, fn func(q repository.Querier) error) error
}

// translate maps repository sentinels onto service errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrPlantNotFound):
		return ErrPlantNotFound
	case errors.Is(err, repository.ErrRenterNotFound):
		return ErrRenterNotFound
	case errors.Is(err, repository.ErrPlantNameTaken):
		return ErrPlantNameTaken
	case errors.Is(err, repository.ErrPlantInUse):
		return ErrPlantInUse
	default:
		return err
	}
}
