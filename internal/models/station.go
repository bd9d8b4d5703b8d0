package models

import "time"

type ChargingStation struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ProviderID uint `gorm:"not null;index" json:"provider_id"`
	Provider   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"provider"`

	Name    string `gorm:"size:100;not null" json:"name"`
	Address string `gorm:"size:255;not null" json:"address"`
	City    string `gorm:"size:100;not null" json:"city"`
	State   string `gorm:"size:100;not null" json:"state"`
	ZipCode string `gorm:"size:20;not null" json:"zip_code"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	PricePerHour  float64 `gorm:"not null" json:"price_per_hour"`
	PowerOutput   float64 `gorm:"not null" json:"power_output"`
	ConnectorType string  `gorm:"size:30;not null" json:"connector_type"`

	OpensAt  string `gorm:"size:5;default:'00:00'" json:"opens_at"`
	ClosesAt string `gorm:"size:5;default:'23:59'" json:"closes_at"`

	Available bool    `gorm:"default:true" json:"available"`
	Rating    float64 `gorm:"default:0" json:"rating"`
	PhotoURL  string  `gorm:"size:512" json:"photo_url"`

	Reviews []StationReview `gorm:"foreignKey:StationID" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StationReview struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StationID uint `gorm:"not null;index" json:"station_id"`
	UserID    uint `gorm:"not null" json:"user_id"`
	User      User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	Rating  int    `gorm:"not null" json:"rating"`
	Comment string `gorm:"size:500" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
