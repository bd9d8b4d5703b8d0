package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/chargeconnect/charge-api/internal/domain/booking"
	"github.com/chargeconnect/charge-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Station
// --------------------------------------------------

func (r *BookingGormRepository) GetStationByID(
	ctx context.Context,
	id uint,
) (*models.ChargingStation, error) {

	var station models.ChargingStation
	if err := r.db.WithContext(ctx).First(&station, id).Error; err != nil {
		return nil, err
	}
	return &station, nil
}

// ClaimStation is the compare-and-set that keeps two concurrent bookings from
// both observing available=true: the conditional UPDATE lands for at most one
// of them, the loser sees zero rows affected.
func (r *BookingGormRepository) ClaimStation(
	ctx context.Context,
	stationID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.ChargingStation{}).
		Where("id = ? AND available = ?", stationID, true).
		Update("available", false)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingGormRepository) ReleaseStationIfIdle(
	ctx context.Context,
	stationID uint,
) error {

	// The flag is recomputed, not blindly set: a station stays closed while
	// any other pending/confirmed booking still references it.
	return r.db.WithContext(ctx).
		Model(&models.ChargingStation{}).
		Where("id = ?", stationID).
		Update("available", gorm.Expr(
			`NOT EXISTS (
				SELECT 1 FROM bookings
				WHERE bookings.station_id = charging_stations.id
				AND bookings.status IN ?
			)`,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		)).Error
}

// --------------------------------------------------
// Vehicle
// --------------------------------------------------

func (r *BookingGormRepository) GetVehicleForOwner(
	ctx context.Context,
	vehicleID uint,
	ownerID uint,
) (*models.Vehicle, error) {

	var vehicle models.Vehicle
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", vehicleID, ownerID).
		First(&vehicle).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Station").
		Preload("Vehicle").
		First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) ListBookingsForCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Station").
		Preload("Vehicle").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) ListBookingsForProvider(
	ctx context.Context,
	providerID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Station").
		Preload("Vehicle").
		Joins("JOIN charging_stations ON charging_stations.id = bookings.station_id").
		Where("charging_stations.provider_id = ?", providerID).
		Order("bookings.created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
