package dto

import (
	"github.com/plantrent/plantrent/internal/billing"
	"github.com/plantrent/plantrent/internal/model"
)

// InvoiceResponse is one renter's invoice. Invoice is null when the renter
// has no rentals.
type InvoiceResponse struct {
	Success bool                           `json:"success"`
	Invoice map[string]billing.InvoiceLine `json:"invoice"`
	Total   billing.Cents                  `json:"total"`
}

// RollupResponse groups every rental by renter.
type RollupResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    billing.Rollup `json:"data"`
}

// RentersResponse lists renters in long form.
type RentersResponse struct {
	Success bool            `json:"success"`
	Data    []*model.Renter `json:"data"`
}

// ErrorResponse is the body of every non-authorization error.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}
