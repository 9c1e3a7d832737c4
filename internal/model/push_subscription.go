package model

import "time"

// PushSubscription holds a browser push subscription of a fleet
// operator. Subscriptions are fleet-wide: every subscriber receives
// every maintenance due-alert.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}
