package model

import "time"

// MileageRequest is a single-use invitation to report an odometer
// reading. The plaintext token leaves the system exactly once, at
// issuance; only its salted digest is stored here. A request is either
// pending or consumed, nothing else.
type MileageRequest struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	VehicleID   int64      `gorm:"index;not null" json:"vehicle_id"`
	ExpectedKM  int        `gorm:"not null" json:"expected_km"`
	TokenDigest string     `gorm:"uniqueIndex;size:64;not null" json:"-"`
	TokenSalt   string     `gorm:"size:32;not null" json:"-"`
	Consumed    bool       `gorm:"not null;default:false" json:"consumed"`
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`

	// Associations
	Vehicle Vehicle `json:"-"`
}
