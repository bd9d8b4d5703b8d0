package models

import "time"

// Connector/charger plug types accepted by stations and vehicles.
const (
	ConnectorType1    = "Type 1 (J1772)"
	ConnectorType2    = "Type 2 (Mennekes)"
	ConnectorCCS1     = "CCS1"
	ConnectorCCS2     = "CCS2"
	ConnectorCHAdeMO  = "CHAdeMO"
	ConnectorTesla    = "Tesla"
)

func IsValidConnectorType(t string) bool {
	switch t {
	case ConnectorType1, ConnectorType2, ConnectorCCS1, ConnectorCCS2, ConnectorCHAdeMO, ConnectorTesla:
		return true
	}
	return false
}

type Vehicle struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OwnerID uint `gorm:"not null;index" json:"owner_id"`
	Owner   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Make         string `gorm:"size:100;not null" json:"make"`
	Model        string `gorm:"size:100;not null" json:"model"`
	Year         int    `gorm:"not null" json:"year"`
	LicensePlate string `gorm:"size:20;uniqueIndex;not null" json:"license_plate"`
	ChargerType  string `gorm:"size:30;not null" json:"charger_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
