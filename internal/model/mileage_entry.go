package model

import "time"

// MileageEntry is one recorded odometer reading. Entries are an audit
// trail and are never updated or deleted; a vehicle's current_km always
// equals the km of its most recent entry.
type MileageEntry struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	VehicleID  int64     `gorm:"index;not null" json:"vehicle_id"`
	RequestID  int64     `gorm:"index;not null" json:"request_id"`
	KM         int       `gorm:"not null" json:"km"`
	DriverName string    `gorm:"size:128;not null" json:"driver_name"`
	RecordedAt time.Time `gorm:"not null" json:"recorded_at"`

	// Associations
	Vehicle Vehicle `json:"-"`
}
