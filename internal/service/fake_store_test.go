package service

import (
	"context"
	"sort"
	"sync"

	"github.com/plantrent/plantrent/internal/model"
	"github.com/plantrent/plantrent/internal/repository"
)

// fakeStore is an in-memory Store. Transactions run inline against the same
// maps; txCalls and readOnlyCalls record how they were requested.
type fakeStore struct {
	mu            sync.Mutex
	nextID        int64
	plants        map[int64]*model.Plant
	renters       map[int64]*model.Renter
	rentals       []model.Rental
	txCalls       int
	readOnlyCalls int
	err           error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		plants:  make(map[int64]*model.Plant),
		renters: make(map[int64]*model.Renter),
	}
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(q repository.Querier) error) error {
	f.txCalls++
	return fn(f)
}

func (f *fakeStore) WithReadOnlyTx(ctx context.Context, fn func(q repository.Querier) error) error {
	f.readOnlyCalls++
	return fn(f)
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ListPlants(ctx context.Context) ([]*model.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Plant
	for _, p := range f.plants {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetPlant(ctx context.Context, id int64) (*model.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plants[id]
	if !ok {
		return nil, repository.ErrPlantNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetPlantForUpdate(ctx context.Context, id int64) (*model.Plant, error) {
	return f.GetPlant(ctx, id)
}

func (f *fakeStore) nameTaken(name string, except int64) bool {
	for _, p := range f.plants {
		if p.Name == name && p.ID != except {
			return true
		}
	}
	return false
}

func (f *fakeStore) CreatePlant(ctx context.Context, plant *model.Plant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.nameTaken(plant.Name, 0) {
		return repository.ErrPlantNameTaken
	}
	plant.ID = f.id()
	cp := *plant
	f.plants[plant.ID] = &cp
	return nil
}

func (f *fakeStore) UpdatePlant(ctx context.Context, plant *model.Plant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plants[plant.ID]; !ok {
		return repository.ErrPlantNotFound
	}
	if f.nameTaken(plant.Name, plant.ID) {
		return repository.ErrPlantNameTaken
	}
	cp := *plant
	f.plants[plant.ID] = &cp
	return nil
}

func (f *fakeStore) DeletePlant(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plants[id]; !ok {
		return repository.ErrPlantNotFound
	}
	for _, r := range f.rentals {
		if r.PlantID == id {
			return repository.ErrPlantInUse
		}
	}
	delete(f.plants, id)
	return nil
}

func (f *fakeStore) ListRenters(ctx context.Context) ([]*model.Renter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Renter
	for _, r := range f.renters {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetRenter(ctx context.Context, id int64) (*model.Renter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.renters[id]
	if !ok {
		return nil, repository.ErrRenterNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) CreateRenter(ctx context.Context, renter *model.Renter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	renter.ID = f.id()
	cp := *renter
	f.renters[renter.ID] = &cp
	return nil
}

func (f *fakeStore) CreateRental(ctx context.Context, rental *model.Rental) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.plants[rental.PlantID]; !ok {
		return repository.ErrRentalReference
	}
	if _, ok := f.renters[rental.RenterID]; !ok {
		return repository.ErrRentalReference
	}
	rental.ID = f.id()
	f.rentals = append(f.rentals, *rental)
	return nil
}

func (f *fakeStore) details(match func(model.Rental) bool) []model.RentalDetail {
	var out []model.RentalDetail
	for _, r := range f.rentals {
		if !match(r) {
			continue
		}
		p, rt := f.plants[r.PlantID], f.renters[r.RenterID]
		out = append(out, model.RentalDetail{
			RentalID:   r.ID,
			PlantID:    p.ID,
			PlantName:  p.Name,
			PlantPrice: p.Price,
			RenterID:   rt.ID,
			RenterName: rt.Name,
		})
	}
	return out
}

func (f *fakeStore) ListRentalDetails(ctx context.Context) ([]model.RentalDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.details(func(model.Rental) bool { return true }), nil
}

func (f *fakeStore) ListRentalDetailsByRenter(ctx context.Context, renterID int64) ([]model.RentalDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.details(func(r model.Rental) bool { return r.RenterID == renterID }), nil
}

var _ Store = (*fakeStore)(nil)
