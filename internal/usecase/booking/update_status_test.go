package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/models"
)

// Seeds one station (provider 10) holding one pending booking by customer 42.
func seedActiveBooking(t *testing.T, repo *fakeRepo) *models.Booking {
	t.Helper()
	seedStation(repo, 10)
	b, err := NewCreateBooking(repo, nil).Execute(context.Background(), CreateBookingInput{
		CustomerID:    42,
		StationID:     1,
		DurationHours: 2,
	})
	require.NoError(t, err)
	return b
}

func providerInput(bookingID uint, to domain.Status) UpdateBookingStatusInput {
	return UpdateBookingStatusInput{
		BookingID:  bookingID,
		NewStatus:  to,
		CallerID:   10,
		CallerRole: models.RoleProvider,
	}
}

func TestUpdateStatusFullLifecycle(t *testing.T) {
	repo := newFakeRepo()
	b := seedActiveBooking(t, repo)
	uc := NewUpdateBookingStatus(repo, nil)

	confirmed, err := uc.Execute(context.Background(), providerInput(b.ID, domain.StatusConfirmed))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), confirmed.Status)

	// Station is still held while the booking is confirmed.
	station, _ := repo.GetStationByID(context.Background(), 1)
	assert.False(t, station.Available)

	completed, err := uc.Execute(context.Background(), providerInput(b.ID, domain.StatusCompleted))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), completed.Status)
	require.NotNil(t, completed.CompletedAt)

	station, _ = repo.GetStationByID(context.Background(), 1)
	assert.True(t, station.Available, "completing the booking must reopen the station")
}

func TestUpdateStatusPendingCannotComplete(t *testing.T) {
	repo := newFakeRepo()
	b := seedActiveBooking(t, repo)
	uc := NewUpdateBookingStatus(repo, nil)

	_, err := uc.Execute(context.Background(), providerInput(b.ID, domain.StatusCompleted))
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
}

func TestUpdateStatusTerminalIsFinal(t *testing.T) {
	repo := newFakeRepo()
	b := seedActiveBooking(t, repo)
	uc := NewUpdateBookingStatus(repo, nil)

	_, err := uc.Execute(context.Background(), providerInput(b.ID, domain.StatusCancelled))
	require.NoError(t, err)

	for _, to := range []domain.Status{domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted} {
		_, err := uc.Execute(context.Background(), providerInput(b.ID, to))
		assert.True(t, httperr.IsBusiness(err, "invalid_transition"), "cancelled -> %s", to)
	}
}

func TestUpdateStatusForeignProviderRejected(t *testing.T) {
	repo := newFakeRepo()
	b := seedActiveBooking(t, repo)
	uc := NewUpdateBookingStatus(repo, nil)

	_, err := uc.Execute(context.Background(), UpdateBookingStatusInput{
		BookingID:  b.ID,
		NewStatus:  domain.StatusConfirmed,
		CallerID:   999,
		CallerRole: models.RoleProvider,
	})
	assert.True(t, httperr.IsBusiness(err, "not_station_provider"))
}

func TestUpdateStatusCustomerMayOnlyCancelPending(t *testing.T) {
	repo := newFakeRepo()
	b := seedActiveBooking(t, repo)
	uc := NewUpdateBookingStatus(repo, nil)

	// Customer confirming their own booking is not allowed.
	_, err := uc.Execute(context.Background(), UpdateBookingStatusInput{
		BookingID:  b.ID,
		NewStatus:  domain.StatusConfirmed,
		CallerID:   42,
		CallerRole: models.RoleCustomer,
	})
	require.Error(t, err)

	// Cancelling their own pending booking is.
	cancelled, err := uc.Execute(context.Background(), UpdateBookingStatusInput{
		BookingID:  b.ID,
		NewStatus:  domain.StatusCancelled,
		CallerID:   42,
		CallerRole: models.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)

	station, _ := repo.GetStationByID(context.Background(), 1)
	assert.True(t, station.Available)
}

func TestUpdateStatusNotFound(t *testing.T) {
	repo := newFakeRepo()
	uc := NewUpdateBookingStatus(repo, nil)

	_, err := uc.Execute(context.Background(), providerInput(123, domain.StatusConfirmed))
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
}

func TestCancelBooking(t *testing.T) {
	repo := newFakeRepo()
	b := seedActiveBooking(t, repo)
	uc := NewCancelBooking(repo, nil)

	// A different customer cannot cancel.
	_, err := uc.Execute(context.Background(), b.ID, 999)
	assert.True(t, httperr.IsBusiness(err, "not_booking_customer"))

	cancelled, err := uc.Execute(context.Background(), b.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)

	station, _ := repo.GetStationByID(context.Background(), 1)
	assert.True(t, station.Available)

	// Cancelling twice fails on the state machine.
	_, err = uc.Execute(context.Background(), b.ID, 42)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
}

// Cancelling one booking must not reopen a station that another active
// booking still holds.
func TestReleaseRecomputesAvailability(t *testing.T) {
	repo := newFakeRepo()
	b := seedActiveBooking(t, repo)

	// A second active booking referencing the same station, inserted
	// behind the workflow's back.
	repo.bookings[99] = &models.Booking{
		ID:         99,
		CustomerID: 77,
		StationID:  1,
		Status:     string(domain.StatusConfirmed),
	}

	_, err := NewCancelBooking(repo, nil).Execute(context.Background(), b.ID, 42)
	require.NoError(t, err)

	station, _ := repo.GetStationByID(context.Background(), 1)
	assert.False(t, station.Available, "station is still held by the confirmed booking")
}
