package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/models"
)

func seedStation(repo *fakeRepo, pricePerHour float64) *models.ChargingStation {
	return repo.addStation(models.ChargingStation{
		ID:           1,
		ProviderID:   10,
		Name:         "Downtown Fast Charge",
		PricePerHour: pricePerHour,
		Available:    true,
	})
}

func TestCreateBooking(t *testing.T) {
	repo := newFakeRepo()
	seedStation(repo, 10)
	uc := NewCreateBooking(repo, nil)

	b, err := uc.Execute(context.Background(), CreateBookingInput{
		CustomerID:    42,
		StationID:     1,
		DurationHours: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 30.0, b.TotalPrice)
	assert.Equal(t, string(domain.StatusPending), b.Status)
	assert.NotEmpty(t, b.Reference)

	station, err := repo.GetStationByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, station.Available, "creating a booking must close the station")
}

func TestCreateBookingStationNotFound(t *testing.T) {
	repo := newFakeRepo()
	uc := NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		CustomerID:    42,
		StationID:     99,
		DurationHours: 2,
	})
	assert.True(t, httperr.IsBusiness(err, "station_not_found"))
}

func TestCreateBookingInvalidDuration(t *testing.T) {
	repo := newFakeRepo()
	seedStation(repo, 10)
	uc := NewCreateBooking(repo, nil)

	for _, hours := range []int{0, 25} {
		_, err := uc.Execute(context.Background(), CreateBookingInput{
			CustomerID:    42,
			StationID:     1,
			DurationHours: hours,
		})
		assert.True(t, httperr.IsBusiness(err, "invalid_duration"), "duration %d", hours)
	}
}

func TestCreateBookingUnavailableStation(t *testing.T) {
	repo := newFakeRepo()
	station := seedStation(repo, 10)
	repo.stations[station.ID].Available = false
	uc := NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		CustomerID:    42,
		StationID:     1,
		DurationHours: 2,
	})
	assert.True(t, httperr.IsBusiness(err, "station_not_available"))
}

func TestCreateBookingVehicleOwnership(t *testing.T) {
	repo := newFakeRepo()
	seedStation(repo, 10)
	repo.addVehicle(models.Vehicle{ID: 7, OwnerID: 42, LicensePlate: "EV-1234"})
	uc := NewCreateBooking(repo, nil)

	vehicleID := uint(7)

	// Someone else's vehicle.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		CustomerID:    99,
		StationID:     1,
		VehicleID:     &vehicleID,
		DurationHours: 2,
	})
	assert.True(t, httperr.IsBusiness(err, "vehicle_not_found"))

	// The claim must not have leaked from the rejected attempt.
	station, _ := repo.GetStationByID(context.Background(), 1)
	assert.True(t, station.Available)

	// The owner succeeds.
	b, err := uc.Execute(context.Background(), CreateBookingInput{
		CustomerID:    42,
		StationID:     1,
		VehicleID:     &vehicleID,
		DurationHours: 2,
	})
	require.NoError(t, err)
	require.NotNil(t, b.VehicleID)
	assert.Equal(t, vehicleID, *b.VehicleID)
}

// The single-holder invariant: N concurrent creates against one available
// station, exactly one wins, the rest see station_not_available.
func TestCreateBookingConcurrentSingleHolder(t *testing.T) {
	const n = 32

	repo := newFakeRepo()
	seedStation(repo, 10)
	uc := NewCreateBooking(repo, nil)

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), CreateBookingInput{
				CustomerID:    uint(100 + i),
				StationID:     1,
				DurationHours: 2,
			})
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case httperr.IsBusiness(err, "station_not_available"):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, n-1, conflicts)
	assert.Len(t, repo.bookings, 1)
}

// If the booking insert fails after the claim, the availability flip must be
// compensated.
func TestCreateBookingCompensatesFailedInsert(t *testing.T) {
	repo := newFakeRepo()
	seedStation(repo, 10)
	repo.failCreateBooking = true
	uc := NewCreateBooking(repo, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		CustomerID:    42,
		StationID:     1,
		DurationHours: 2,
	})
	require.Error(t, err)

	station, _ := repo.GetStationByID(context.Background(), 1)
	assert.True(t, station.Available, "failed insert must release the claim")
}
