package model

import "time"

// MaintenanceDefinition describes one recurring maintenance item for a
// vehicle, e.g. an oil change every 15000 km or an inspection every 24
// months. At least one of the two intervals is set; with both set the
// item is due as soon as either threshold is crossed.
//
// NotificationSent guards against duplicate alerts for the same due
// event. Once set it is cleared only by logging the service, which also
// moves the baseline (LastServiceKM / LastServicedAt) forward.
type MaintenanceDefinition struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	VehicleID        int64     `gorm:"index;not null" json:"vehicle_id"`
	Kind             string    `gorm:"size:64;not null" json:"kind"`
	IntervalKM       *int      `json:"interval_km,omitempty"`
	IntervalMonths   *int      `json:"interval_months,omitempty"`
	LastServiceKM    int       `gorm:"not null" json:"last_service_km"`
	LastServicedAt   time.Time `gorm:"not null" json:"last_serviced_at"`
	NotificationSent bool      `gorm:"not null;default:false" json:"notification_sent"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Vehicle Vehicle `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// NextDueKM returns the odometer threshold at which the distance
// interval elapses, or nil when no distance interval is set. Derived
// rather than stored so it cannot drift from its inputs.
func (d *MaintenanceDefinition) NextDueKM() *int {
	if d.IntervalKM == nil {
		return nil
	}
	due := d.LastServiceKM + *d.IntervalKM
	return &due
}
