package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chargeconnect/charge-api/internal/audit"
	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	CustomerID uint
	StationID  uint
	VehicleID  *uint

	StartTime     time.Time
	DurationHours int
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if err := domain.ValidateDuration(in.DurationHours); err != nil {
		return nil, err
	}

	station, err := uc.repo.GetStationByID(ctx, in.StationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("station_not_found")
		}
		return nil, err
	}

	// Vehicle is optional; when supplied it must belong to the caller.
	if in.VehicleID != nil {
		if _, err := uc.repo.GetVehicleForOwner(ctx, *in.VehicleID, in.CustomerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, httperr.ErrBusiness("vehicle_not_found")
			}
			return nil, err
		}
	}

	startTime := in.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	// Phase one: claim the station. The conditional update is what makes
	// exactly one of N concurrent requests win.
	claimed, err := uc.repo.ClaimStation(ctx, station.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		uc.audit.Dispatch(audit.Event{
			UserID:   &in.CustomerID,
			Action:   "booking_conflict",
			Entity:   "station",
			EntityID: &station.ID,
		})
		return nil, httperr.ErrBusiness("station_not_available")
	}

	b := &models.Booking{
		Reference:     uuid.NewString(),
		CustomerID:    in.CustomerID,
		StationID:     station.ID,
		VehicleID:     in.VehicleID,
		StartTime:     startTime,
		DurationHours: in.DurationHours,
		TotalPrice:    domain.TotalPrice(station.PricePerHour, in.DurationHours),
		Status:        string(domain.InitialStatus()),
	}

	// Phase two: persist the booking. If this fails the claim must not
	// leak, so the availability flip is compensated.
	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		if relErr := uc.repo.ReleaseStationIfIdle(ctx, station.ID); relErr != nil {
			return nil, relErr
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.CustomerID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"station_id":  station.ID,
			"total_price": b.TotalPrice,
		},
	})

	return b, nil
}
