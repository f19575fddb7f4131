package service

import (
	"context"

	"github.com/plantrent/plantrent/internal/billing"
	"github.com/plantrent/plantrent/internal/metrics"
	"github.com/plantrent/plantrent/internal/model"
	"github.com/plantrent/plantrent/internal/repository"
)

// RentalService builds invoices and rollups from rental records.
type RentalService struct {
	store   Store
	metrics metrics.Recorder
}

// NewRentalService creates a new RentalService.
func NewRentalService(store Store, recorder metrics.Recorder) *RentalService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &RentalService{store: store, metrics: recorder}
}

// Invoice builds the invoice of one renter. The renter lookup and their
// rentals are read from the same snapshot.
func (s *RentalService) Invoice(ctx context.Context, renterID int64) (billing.Invoice, error) {
	var rentals []model.RentalDetail
	err := s.store.WithReadOnlyTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetRenter(ctx, renterID); err != nil {
			return err
		}
		var err error
		rentals, err = q.ListRentalDetailsByRenter(ctx, renterID)
		return err
	})
	if err != nil {
		return billing.Invoice{}, translate(err)
	}

	s.metrics.IncInvoiceGenerated()
	return billing.BuildInvoice(rentals), nil
}

// Rollup groups every rental by renter.
func (s *RentalService) Rollup(ctx context.Context) (billing.Rollup, error) {
	rentals, err := s.store.ListRentalDetails(ctx)
	if err != nil {
		return nil, err
	}

	s.metrics.IncRollupGenerated()
	return billing.BuildRollup(rentals), nil
}

// ListRenters returns every renter.
func (s *RentalService) ListRenters(ctx context.Context) ([]*model.Renter, error) {
	return s.store.ListRenters(ctx)
}
