package model

// Rental links one plant to one renter. Rentals are immutable once created.
type Rental struct {
	ID       int64 `json:"id"`
	PlantID  int64 `json:"plant_id"`
	RenterID int64 `json:"renter_id"`
}

// RentalDetail is a rental joined with the plant and renter it references.
// It is the input of the invoice and rollup aggregations.
type RentalDetail struct {
	RentalID   int64
	PlantID    int64
	PlantName  string
	PlantPrice float64
	RenterID   int64
	RenterName string
}
