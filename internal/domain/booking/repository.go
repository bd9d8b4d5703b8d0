package booking

import (
	"context"

	"github.com/chargeconnect/charge-api/internal/models"
)

type Repository interface {
	// -------- Station --------
	GetStationByID(
		ctx context.Context,
		id uint,
	) (*models.ChargingStation, error)

	// ClaimStation flips available=false only if it is currently true.
	// Returns false when another booking already holds the station.
	ClaimStation(
		ctx context.Context,
		stationID uint,
	) (bool, error)

	// ReleaseStationIfIdle sets available=true only when no pending or
	// confirmed booking still references the station.
	ReleaseStationIfIdle(
		ctx context.Context,
		stationID uint,
	) error

	// -------- Vehicle --------
	GetVehicleForOwner(
		ctx context.Context,
		vehicleID uint,
		ownerID uint,
	) (*models.Vehicle, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookingsForCustomer(
		ctx context.Context,
		customerID uint,
	) ([]models.Booking, error)

	ListBookingsForProvider(
		ctx context.Context,
		providerID uint,
	) ([]models.Booking, error)
}
