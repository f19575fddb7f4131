package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/plantrent/plantrent/internal/billing"
	"github.com/plantrent/plantrent/internal/model"
	"github.com/plantrent/plantrent/internal/service"
)

type stubRentalService struct {
	rentals []model.RentalDetail
	renters []*model.Renter
}

func (s *stubRentalService) Invoice(ctx context.Context, renterID int64) (billing.Invoice, error) {
	for _, r := range s.renters {
		if r.ID != renterID {
			continue
		}
		var mine []model.RentalDetail
		for _, d := range s.rentals {
			if d.RenterID == renterID {
				mine = append(mine, d)
			}
		}
		return billing.BuildInvoice(mine), nil
	}
	return billing.Invoice{}, service.ErrRenterNotFound
}

func (s *stubRentalService) Rollup(ctx context.Context) (billing.Rollup, error) {
	return billing.BuildRollup(s.rentals), nil
}

func (s *stubRentalService) ListRenters(ctx context.Context) ([]*model.Renter, error) {
	return s.renters, nil
}

func newRentalRouter(svc RentalService) http.Handler {
	h := NewRentalHandler(svc, discardLogger())
	r := chi.NewRouter()
	r.Get("/invoice/{renterId}", h.Invoice)
	r.Get("/rented", h.Rented)
	r.Get("/renters", h.Renters)
	return r
}

func scenarioRentals() *stubRentalService {
	ann := &model.Renter{ID: 1, Name: "Ann", Address: "1 Elm St", City: "Salem", State: "OR"}
	bob := &model.Renter{ID: 2, Name: "Bob", Address: "2 Oak St", City: "Bend", State: "OR"}
	cy := &model.Renter{ID: 3, Name: "Cy", Address: "3 Ash St", City: "Eugene", State: "OR"}
	return &stubRentalService{
		renters: []*model.Renter{ann, bob, cy},
		rentals: []model.RentalDetail{
			{RentalID: 1, PlantName: "Fern", PlantPrice: 10, RenterID: 1, RenterName: "Ann"},
			{RentalID: 2, PlantName: "Fern", PlantPrice: 10, RenterID: 1, RenterName: "Ann"},
			{RentalID: 3, PlantName: "Cactus", PlantPrice: 5, RenterID: 1, RenterName: "Ann"},
			{RentalID: 4, PlantName: "Palm", PlantPrice: 30, RenterID: 2, RenterName: "Bob"},
		},
	}
}

func TestRentalHandler_Invoice(t *testing.T) {
	router := newRentalRouter(scenarioRentals())

	tests := []struct {
		name     string
		target   string
		wantCode int
		wantBody string
	}{
		{
			name:     "grouped lines",
			target:   "/invoice/1",
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"invoice":{"Fern":{"count":2,"price":20.00},"Cactus":{"count":1,"price":5.00}},"total":25.00}`,
		},
		{
			name:     "single rental",
			target:   "/invoice/2",
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"invoice":{"Palm":{"count":1,"price":30.00}},"total":30.00}`,
		},
		{
			name:     "no rentals",
			target:   "/invoice/3",
			wantCode: http.StatusOK,
			wantBody: `{"success":true,"invoice":null,"total":0.0}`,
		},
		{
			name:     "unknown renter",
			target:   "/invoice/42",
			wantCode: http.StatusNotFound,
			wantBody: `{"success":false,"error":404,"message":"resource not found"}`,
		},
		{
			name:     "non-numeric id",
			target:   "/invoice/ann",
			wantCode: http.StatusNotFound,
			wantBody: `{"success":false,"error":404,"message":"resource not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.target, "")
			require.Equal(t, tt.wantCode, rec.Code)
			require.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestRentalHandler_Rented(t *testing.T) {
	t.Run("rollup", func(t *testing.T) {
		rec := serve(newRentalRouter(scenarioRentals()), http.MethodGet, "/rented", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{
			"success": true,
			"message": "Follow up & keep the plants alive",
			"data": {
				"Ann": {
					"total": 25,
					"Fern": {"name": "Fern", "count": 2, "price": 20},
					"Cactus": {"name": "Cactus", "count": 1, "price": 5}
				},
				"Bob": {
					"total": 30,
					"Palm": {"name": "Palm", "count": 1, "price": 30}
				}
			}
		}`, rec.Body.String())
	})

	t.Run("no rentals", func(t *testing.T) {
		rec := serve(newRentalRouter(&stubRentalService{}), http.MethodGet, "/rented", "")

		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"success": true, "message": "Get some clients", "data": null}`, rec.Body.String())
	})
}

func TestRentalHandler_Renters(t *testing.T) {
	rec := serve(newRentalRouter(scenarioRentals()), http.MethodGet, "/renters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"address":"1 Elm St"`)

	rec = serve(newRentalRouter(&stubRentalService{}), http.MethodGet, "/renters", "")
	require.JSONEq(t, `{"success": true, "data": null}`, rec.Body.String())
}
