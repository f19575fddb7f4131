package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/plantrent/plantrent/internal/billing"
	"github.com/plantrent/plantrent/internal/metrics"
	"github.com/plantrent/plantrent/internal/model"
	"github.com/plantrent/plantrent/internal/repository"
)

const (
	maxNameLength        = 120
	maxDescriptionLength = 2000
	// maxQuantity is the largest value an INTEGER column holds.
	maxQuantity = math.MaxInt32
	// maxPrice is the largest value a NUMERIC(10,2) column holds.
	maxPrice = 99999999.99
)

// CatalogService handles plant catalog business logic.
type CatalogService struct {
	store   Store
	metrics metrics.Recorder
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(store Store, recorder metrics.Recorder) *CatalogService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CatalogService{store: store, metrics: recorder}
}

// PlantInput carries plant fields; nil means the field was not supplied.
type PlantInput struct {
	Name        *string
	Description *string
	Quantity    *int
	Price       *float64
}

// ListPlants returns the catalog.
func (s *CatalogService) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	plants, err := s.store.ListPlants(ctx)
	if err != nil {
		return nil, err
	}
	return plants, nil
}

// GetPlant retrieves a plant by ID.
func (s *CatalogService) GetPlant(ctx context.Context, id int64) (*model.Plant, error) {
	plant, err := s.store.GetPlant(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return plant, nil
}

// CreatePlant validates input and adds a plant. Every field is required.
func (s *CatalogService) CreatePlant(ctx context.Context, input PlantInput) (*model.Plant, error) {
	if input.Name == nil || input.Description == nil || input.Quantity == nil || input.Price == nil {
		return nil, fmt.Errorf("%w: name, description, quantity and price are required", ErrInvalidPlant)
	}

	plant := &model.Plant{}
	applyPlantInput(plant, input)
	if err := validatePlant(plant); err != nil {
		return nil, err
	}

	if err := s.store.CreatePlant(ctx, plant); err != nil {
		return nil, translate(err)
	}

	s.metrics.IncPlantCreated()
	return plant, nil
}

// UpdatePlant applies the supplied fields over the stored plant and
// re-validates the result before saving it.
func (s *CatalogService) UpdatePlant(ctx context.Context, id int64, input PlantInput) (*model.Plant, error) {
	var updated *model.Plant
	err := s.store.WithTx(ctx, func(q repository.Querier) error {
		plant, err := q.GetPlantForUpdate(ctx, id)
		if err != nil {
			return err
		}

		applyPlantInput(plant, input)
		if err := validatePlant(plant); err != nil {
			return err
		}

		if err := q.UpdatePlant(ctx, plant); err != nil {
			return err
		}
		updated = plant
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}

	s.metrics.IncPlantUpdated()
	return updated, nil
}

// DeletePlant removes a plant that has no rentals.
func (s *CatalogService) DeletePlant(ctx context.Context, id int64) error {
	if err := s.store.DeletePlant(ctx, id); err != nil {
		return translate(err)
	}

	s.metrics.IncPlantDeleted()
	return nil
}

func applyPlantInput(plant *model.Plant, input PlantInput) {
	if input.Name != nil {
		plant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		plant.Description = strings.TrimSpace(*input.Description)
	}
	if input.Quantity != nil {
		plant.Quantity = *input.Quantity
	}
	if input.Price != nil {
		plant.Price = *input.Price
	}
}

func validatePlant(plant *model.Plant) error {
	switch {
	case plant.Name == "":
		return fmt.Errorf("%w: name must not be empty", ErrInvalidPlant)
	case len(plant.Name) > maxNameLength:
		return fmt.Errorf("%w: name is too long", ErrInvalidPlant)
	case plant.Description == "":
		return fmt.Errorf("%w: description must not be empty", ErrInvalidPlant)
	case len(plant.Description) > maxDescriptionLength:
		return fmt.Errorf("%w: description is too long", ErrInvalidPlant)
	case plant.Name == billing.TotalKey:
		return fmt.Errorf("%w: name %q is reserved", ErrInvalidPlant, billing.TotalKey)
	case plant.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", ErrInvalidPlant)
	case plant.Quantity > maxQuantity:
		return fmt.Errorf("%w: quantity is too large", ErrInvalidPlant)
	case plant.Price < 0 || math.IsNaN(plant.Price) || plant.Price > maxPrice:
		return fmt.Errorf("%w: price out of range", ErrInvalidPlant)
	}
	return nil
}
