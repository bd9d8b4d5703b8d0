package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/models"
)

// fakeRepo is an in-memory domain.Repository. ClaimStation holds the same
// contract as the SQL compare-and-set, which is what the concurrency tests
// lean on.
type fakeRepo struct {
	mu sync.Mutex

	stations map[uint]*models.ChargingStation
	vehicles map[uint]*models.Vehicle
	bookings map[uint]*models.Booking

	nextBookingID uint
	createdAt     time.Time

	failCreateBooking bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		stations:  map[uint]*models.ChargingStation{},
		vehicles:  map[uint]*models.Vehicle{},
		bookings:  map[uint]*models.Booking{},
		createdAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRepo) addStation(s models.ChargingStation) *models.ChargingStation {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := s
	r.stations[cp.ID] = &cp
	return &cp
}

func (r *fakeRepo) addVehicle(v models.Vehicle) *models.Vehicle {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := v
	r.vehicles[cp.ID] = &cp
	return &cp
}

func (r *fakeRepo) GetStationByID(ctx context.Context, id uint) (*models.ChargingStation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) ClaimStation(ctx context.Context, stationID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stations[stationID]
	if !ok || !s.Available {
		return false, nil
	}
	s.Available = false
	return true, nil
}

func (r *fakeRepo) ReleaseStationIfIdle(ctx context.Context, stationID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stations[stationID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	for _, b := range r.bookings {
		if b.StationID == stationID && !domain.Status(b.Status).Terminal() {
			s.Available = false
			return nil
		}
	}
	s.Available = true
	return nil
}

func (r *fakeRepo) GetVehicleForOwner(ctx context.Context, vehicleID, ownerID uint) (*models.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[vehicleID]
	if !ok || v.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreateBooking {
		return errors.New("storage write failed")
	}

	r.nextBookingID++
	r.createdAt = r.createdAt.Add(time.Second)
	b.ID = r.nextBookingID
	b.CreatedAt = r.createdAt

	cp := *b
	r.bookings[cp.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *b
	r.bookings[cp.ID] = &cp
	return nil
}

func (r *fakeRepo) ListBookingsForCustomer(ctx context.Context, customerID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeRepo) ListBookingsForProvider(ctx context.Context, providerID uint) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if s, ok := r.stations[b.StationID]; ok && s.ProviderID == providerID {
			out = append(out, *b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(bookings []models.Booking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}

var _ domain.Repository = (*fakeRepo)(nil)
