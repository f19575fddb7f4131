package billing

import "github.com/plantrent/plantrent/internal/model"

// InvoiceLine is the tally for one plant on a renter's invoice.
type InvoiceLine struct {
	Count int   `json:"count"`
	Price Cents `json:"price"`
}

// Invoice groups one renter's rentals by plant name.
// Lines is nil when there were no rentals.
type Invoice struct {
	Lines map[string]InvoiceLine
	Total Cents
}

// BuildInvoice tallies rentals per plant name in a single pass.
// Every rental contributes its plant price exactly once to its line and to
// the grand total.
func BuildInvoice(rentals []model.RentalDetail) Invoice {
	var inv Invoice
	for _, r := range rentals {
		price := FromPrice(r.PlantPrice)
		inv.Total += price

		if inv.Lines == nil {
			inv.Lines = make(map[string]InvoiceLine)
		}

		line, ok := inv.Lines[r.PlantName]
		if !ok {
			inv.Lines[r.PlantName] = InvoiceLine{Count: 1, Price: price}
			continue
		}
		line.Count++
		line.Price += price
		inv.Lines[r.PlantName] = line
	}
	return inv
}

// LinesTotal sums the price of every line.
func (inv Invoice) LinesTotal() Cents {
	var sum Cents
	for _, line := range inv.Lines {
		sum += line.Price
	}
	return sum
}
