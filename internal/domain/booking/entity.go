package booking

import (
	"time"

	"github.com/chargeconnect/charge-api/internal/httperr"
	"github.com/chargeconnect/charge-api/internal/models"
)

const (
	MinDurationHours = 1
	MaxDurationHours = 24
)

// ===============================
// Domain Actions
// ===============================

// ValidateDuration bounds a booking to whole hours in [1, 24].
func ValidateDuration(hours int) error {
	if hours < MinDurationHours || hours > MaxDurationHours {
		return httperr.ErrBusiness("invalid_duration")
	}
	return nil
}

// TotalPrice is the station's hourly rate times the booked duration.
func TotalPrice(pricePerHour float64, durationHours int) float64 {
	return pricePerHour * float64(durationHours)
}

func Transition(b *models.Booking, to Status, now time.Time) error {
	if err := CanTransition(Status(b.Status), to); err != nil {
		return err
	}

	b.Status = string(to)
	switch to {
	case StatusCancelled:
		b.CancelledAt = &now
	case StatusCompleted:
		b.CompletedAt = &now
	}
	return nil
}

func Cancel(b *models.Booking, now time.Time) error {
	if err := CanCancel(Status(b.Status)); err != nil {
		return err
	}

	b.Status = string(StatusCancelled)
	b.CancelledAt = &now
	return nil
}
