package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/plantrent/plantrent/internal/billing"
	"github.com/plantrent/plantrent/internal/handler/dto"
	"github.com/plantrent/plantrent/internal/model"
)

const (
	msgRollupEmpty = "Get some clients"
	msgRollup      = "Follow up & keep the plants alive"
)

// RentalService is the billing behaviour the handler needs.
type RentalService interface {
	Invoice(ctx context.Context, renterID int64) (billing.Invoice, error)
	Rollup(ctx context.Context) (billing.Rollup, error)
	ListRenters(ctx context.Context) ([]*model.Renter, error)
}

// RentalHandler serves invoices, the rental rollup and the renter list.
type RentalHandler struct {
	svc    RentalService
	logger *slog.Logger
}

// NewRentalHandler creates a new RentalHandler.
func NewRentalHandler(svc RentalService, logger *slog.Logger) *RentalHandler {
	return &RentalHandler{
		svc:    svc,
		logger: logger,
	}
}

// Invoice handles GET /invoice/{renterId}.
func (h *RentalHandler) Invoice(w http.ResponseWriter, r *http.Request) {
	renterID, ok := parseID(r, "renterId")
	if !ok {
		WriteError(w, http.StatusNotFound)
		return
	}

	inv, err := h.svc.Invoice(r.Context(), renterID)
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.InvoiceResponse{
		Success: true,
		Invoice: inv.Lines,
		Total:   inv.Total,
	})
}

// Rented handles GET /rented.
func (h *RentalHandler) Rented(w http.ResponseWriter, r *http.Request) {
	rollup, err := h.svc.Rollup(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	if len(rollup) == 0 {
		writeJSON(w, http.StatusOK, dto.RollupResponse{Success: true, Message: msgRollupEmpty})
		return
	}

	writeJSON(w, http.StatusOK, dto.RollupResponse{
		Success: true,
		Message: msgRollup,
		Data:    rollup,
	})
}

// Renters handles GET /renters.
func (h *RentalHandler) Renters(w http.ResponseWriter, r *http.Request) {
	renters, err := h.svc.ListRenters(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, r, err)
		return
	}

	if len(renters) == 0 {
		renters = nil
	}
	writeJSON(w, http.StatusOK, dto.RentersResponse{Success: true, Data: renters})
}
