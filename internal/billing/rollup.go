package billing

import (
	"encoding/json"

	"github.com/plantrent/plantrent/internal/model"
)

// TotalKey is the key of the renter total in a serialized RenterSummary.
// Plant names share that object, so no plant may be called TotalKey.
const TotalKey = "total"

// PlantTally counts how often a renter rented a plant and what it cost.
type PlantTally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Price Cents  `json:"price"`
}

// RenterSummary is one renter's entry in a Rollup.
type RenterSummary struct {
	Total  Cents
	Plants map[string]PlantTally
}

// MarshalJSON writes the plant tallies and the renter total side by side:
// {"total": 25.00, "Fern": {...}, "Cactus": {...}}. The total always wins the
// TotalKey slot.
func (s *RenterSummary) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Plants)+1)
	for name, tally := range s.Plants {
		out[name] = tally
	}
	out[TotalKey] = s.Total
	return json.Marshal(out)
}

// Rollup maps renter names to their rental summary.
type Rollup map[string]*RenterSummary

// BuildRollup groups all rentals by renter name, then by plant name.
// The renter total includes every rental regardless of plant grouping.
// It returns nil for empty input.
func BuildRollup(rentals []model.RentalDetail) Rollup {
	if len(rentals) == 0 {
		return nil
	}

	rollup := make(Rollup)
	for _, r := range rentals {
		price := FromPrice(r.PlantPrice)

		summary, ok := rollup[r.RenterName]
		if !ok {
			summary = &RenterSummary{Plants: make(map[string]PlantTally)}
			rollup[r.RenterName] = summary
		}
		summary.Total += price

		tally, ok := summary.Plants[r.PlantName]
		if !ok {
			summary.Plants[r.PlantName] = PlantTally{Name: r.PlantName, Count: 1, Price: price}
			continue
		}
		tally.Count++
		tally.Price += price
		summary.Plants[r.PlantName] = tally
	}
	return rollup
}
