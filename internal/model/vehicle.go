package model

import "time"

// VehicleStatus enumerates the lifecycle states of a fleet vehicle.
type VehicleStatus string

const (
	VehicleActive        VehicleStatus = "active"
	VehicleInactive      VehicleStatus = "inactive"
	VehicleInMaintenance VehicleStatus = "in_maintenance"
)

// Vehicle represents a fleet vehicle and its current odometer reading.
// Version backs the optimistic check that serializes concurrent
// odometer updates on the same row.
type Vehicle struct {
	ID        int64         `gorm:"primaryKey" json:"id"`
	Plate     string        `gorm:"uniqueIndex;size:32;not null" json:"plate"`
	Model     string        `gorm:"size:128" json:"model"`
	CurrentKM int           `gorm:"not null" json:"current_km"`
	Status    VehicleStatus `gorm:"size:16;not null;default:active" json:"status"`
	Version   int64         `gorm:"not null;default:0" json:"-"`
	CreatedAt time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time     `gorm:"not null" json:"updated_at"`

	// Associations
	MaintenanceDefinitions []MaintenanceDefinition `gorm:"foreignKey:VehicleID" json:"-"`
}
