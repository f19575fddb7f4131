// Package model defines domain entities for the application.
package model

// Plant is a catalog entry that can be rented.
type Plant struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// PlantShort is the list representation of a plant.
type PlantShort struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Short returns the list representation of the plant.
func (p *Plant) Short() PlantShort {
	return PlantShort{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}
}
