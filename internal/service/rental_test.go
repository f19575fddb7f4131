package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plantrent/plantrent/internal/billing"
	"github.com/plantrent/plantrent/internal/metrics"
	"github.com/plantrent/plantrent/internal/model"
)

type rentalFixture struct {
	store  *fakeStore
	fern   *model.Plant
	cactus *model.Plant
	palm   *model.Plant
	ann    *model.Renter
	bob    *model.Renter
	cy     *model.Renter
}

func newRentalFixture(t *testing.T) *rentalFixture {
	t.Helper()
	ctx := context.Background()
	f := &rentalFixture{
		store:  newFakeStore(),
		fern:   &model.Plant{Name: "Fern", Price: 10},
		cactus: &model.Plant{Name: "Cactus", Price: 5},
		palm:   &model.Plant{Name: "Palm", Price: 30},
		ann:    &model.Renter{Name: "Ann"},
		bob:    &model.Renter{Name: "Bob"},
		cy:     &model.Renter{Name: "Cy"},
	}
	for _, p := range []*model.Plant{f.fern, f.cactus, f.palm} {
		require.NoError(t, f.store.CreatePlant(ctx, p))
	}
	for _, r := range []*model.Renter{f.ann, f.bob, f.cy} {
		require.NoError(t, f.store.CreateRenter(ctx, r))
	}
	f.rent(t, f.fern, f.ann)
	f.rent(t, f.fern, f.ann)
	f.rent(t, f.cactus, f.ann)
	f.rent(t, f.palm, f.bob)
	return f
}

func (f *rentalFixture) rent(t *testing.T, p *model.Plant, r *model.Renter) {
	t.Helper()
	require.NoError(t, f.store.CreateRental(context.Background(), &model.Rental{PlantID: p.ID, RenterID: r.ID}))
}

func TestRentalService_Invoice(t *testing.T) {
	f := newRentalFixture(t)
	rec := metrics.NewInMemory()
	svc := NewRentalService(f.store, rec)
	ctx := context.Background()

	t.Run("renter with rentals", func(t *testing.T) {
		inv, err := svc.Invoice(ctx, f.ann.ID)
		require.NoError(t, err)
		require.Equal(t, map[string]billing.InvoiceLine{
			"Fern":   {Count: 2, Price: 2000},
			"Cactus": {Count: 1, Price: 500},
		}, inv.Lines)
		require.Equal(t, billing.Cents(2500), inv.Total)
	})

	t.Run("single rental", func(t *testing.T) {
		inv, err := svc.Invoice(ctx, f.bob.ID)
		require.NoError(t, err)
		require.Equal(t, map[string]billing.InvoiceLine{"Palm": {Count: 1, Price: 3000}}, inv.Lines)
		require.Equal(t, billing.Cents(3000), inv.Total)
	})

	t.Run("renter without rentals", func(t *testing.T) {
		inv, err := svc.Invoice(ctx, f.cy.ID)
		require.NoError(t, err)
		require.Nil(t, inv.Lines)
		require.Zero(t, inv.Total)
	})

	t.Run("unknown renter", func(t *testing.T) {
		_, err := svc.Invoice(ctx, 999)
		require.ErrorIs(t, err, ErrRenterNotFound)
	})

	require.Equal(t, 4, f.store.readOnlyCalls)
	require.EqualValues(t, 3, rec.Snapshot().InvoicesGenerated)
}

func TestRentalService_Rollup(t *testing.T) {
	f := newRentalFixture(t)
	svc := NewRentalService(f.store, nil)

	rollup, err := svc.Rollup(context.Background())
	require.NoError(t, err)
	require.Len(t, rollup, 2)
	require.Equal(t, billing.Cents(2500), rollup["Ann"].Total)
	require.Equal(t, 2, rollup["Ann"].Plants["Fern"].Count)
	require.Equal(t, billing.Cents(3000), rollup["Bob"].Total)
	require.NotContains(t, rollup, "Cy")
}

func TestRentalService_RollupEmpty(t *testing.T) {
	svc := NewRentalService(newFakeStore(), nil)

	rollup, err := svc.Rollup(context.Background())
	require.NoError(t, err)
	require.Empty(t, rollup)
}

func TestRentalService_ListRenters(t *testing.T) {
	f := newRentalFixture(t)
	svc := NewRentalService(f.store, nil)

	renters, err := svc.ListRenters(context.Background())
	require.NoError(t, err)
	require.Len(t, renters, 3)
	require.Equal(t, "Ann", renters[0].Name)
}
