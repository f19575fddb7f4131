// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/plantrent/plantrent/internal/model"
)

// PlantRequest is the body of POST /add and PATCH /plants/{id}.
// Absent fields decode to nil.
type PlantRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
}

// PlantListResponse lists the catalog in short form.
type PlantListResponse struct {
	Success bool               `json:"success"`
	Plants  []model.PlantShort `json:"plants"`
	Message string             `json:"message"`
}

// PlantDetailResponse shows one plant in long form.
type PlantDetailResponse struct {
	Success bool         `json:"success"`
	Plants  *model.Plant `json:"plants"`
	Message string       `json:"message"`
}

// PlantResponse returns a created or updated plant.
type PlantResponse struct {
	Success bool         `json:"success"`
	Plant   *model.Plant `json:"plant"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// ToPlantShortList converts plants to their short form; nil when empty.
func ToPlantShortList(plants []*model.Plant) []model.PlantShort {
	if len(plants) == 0 {
		return nil
	}
	out := make([]model.PlantShort, 0, len(plants))
	for _, p := range plants {
		out = append(out, p.Short())
	}
	return out
}
