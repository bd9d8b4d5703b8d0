package booking

import (
	"context"

	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/models"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

// Customers see their own bookings, providers see bookings against any of
// their stations. Both newest first.
func (uc *ListBookings) Execute(
	ctx context.Context,
	callerID uint,
	role models.Role,
) ([]models.Booking, error) {

	switch role {
	case models.RoleCustomer:
		return uc.repo.ListBookingsForCustomer(ctx, callerID)
	case models.RoleProvider:
		return uc.repo.ListBookingsForProvider(ctx, callerID)
	default:
		return nil, httperr.ErrBusiness("invalid_role")
	}
}
