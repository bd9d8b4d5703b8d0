package booking

import (
	"context"
	"errors"

	"gorm.io/gorm"

	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/models"
)

type GetBooking struct {
	repo domain.Repository
}

func NewGetBooking(repo domain.Repository) *GetBooking {
	return &GetBooking{repo: repo}
}

func (uc *GetBooking) Execute(
	ctx context.Context,
	bookingID uint,
	callerID uint,
	role models.Role,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
		return nil, err
	}

	// Visibility: the booking's customer or the station's provider.
	// Anyone else gets the same not-found as a missing record.
	switch role {
	case models.RoleCustomer:
		if b.CustomerID != callerID {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
	case models.RoleProvider:
		station, err := uc.repo.GetStationByID(ctx, b.StationID)
		if err != nil {
			return nil, err
		}
		if station.ProviderID != callerID {
			return nil, httperr.ErrBusiness("booking_not_found")
		}
	default:
		return nil, httperr.ErrBusiness("invalid_role")
	}

	return b, nil
}
