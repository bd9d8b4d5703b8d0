package booking

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/chargeconnect/charge-api/internal/audit"
	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/models"
)

type UpdateBookingStatusInput struct {
	BookingID uint
	NewStatus domain.Status

	CallerID   uint
	CallerRole models.Role
}

type UpdateBookingStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:  repo,
		audit: audit,
	}
}

func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	in UpdateBookingStatusInput,
) (*models.Booking, error) {

	if !in.NewStatus.Valid() {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	if err := uc.authorize(ctx, b, in); err != nil {
		return nil, err
	}

	if err := domain.Transition(b, in.NewStatus, time.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	// A terminal booking no longer holds the station; the flag is
	// recomputed so a second active booking, if any, keeps it closed.
	if in.NewStatus.Terminal() {
		if err := uc.repo.ReleaseStationIfIdle(ctx, b.StationID); err != nil {
			return nil, err
		}
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.CallerID,
		Action:   "booking_" + string(in.NewStatus),
		Entity:   "booking",
		EntityID: &b.ID,
	})

	return b, nil
}

// The station's provider drives the booking lifecycle; the customer may only
// cancel their own pending booking.
func (uc *UpdateBookingStatus) authorize(
	ctx context.Context,
	b *models.Booking,
	in UpdateBookingStatusInput,
) error {

	if in.CallerRole == models.RoleProvider {
		station, err := uc.repo.GetStationByID(ctx, b.StationID)
		if err != nil {
			return err
		}
		if station.ProviderID != in.CallerID {
			return httperr.ErrBusiness("not_station_provider")
		}
		return nil
	}

	if b.CustomerID != in.CallerID {
		return httperr.ErrBusiness("not_booking_customer")
	}
	if in.NewStatus != domain.StatusCancelled || domain.Status(b.Status) != domain.StatusPending {
		return httperr.ErrBusiness("not_station_provider")
	}
	return nil
}
