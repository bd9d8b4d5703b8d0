package models

import "time"

type Booking struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:36;uniqueIndex;not null" json:"reference"`

	CustomerID uint `gorm:"not null;index" json:"customer_id"`
	Customer   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer"`

	StationID uint            `gorm:"not null;index" json:"station_id"`
	Station   ChargingStation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"station"`

	VehicleID *uint    `json:"vehicle_id"`
	Vehicle   *Vehicle `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"vehicle,omitempty"`

	StartTime     time.Time `gorm:"not null" json:"start_time"`
	DurationHours int       `gorm:"not null" json:"duration_hours"`
	TotalPrice    float64   `gorm:"not null" json:"total_price"`

	Status string `gorm:"size:20;default:'pending';index" json:"status"`

	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
