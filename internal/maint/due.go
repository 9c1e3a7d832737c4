// Package maint contains the pure due-evaluation rules for maintenance
// definitions. It has no storage dependencies so the threshold logic
// can be tested in isolation.
package maint

import (
	"time"

	"fleet-tracker-backend/internal/model"
)

// IsDue reports whether a maintenance definition has crossed one of its
// thresholds. With both intervals set the semantics are OR: whichever
// threshold arrives first triggers service.
func IsDue(def *model.MaintenanceDefinition, currentKM int, now time.Time) bool {
	return DueByDistance(def, currentKM) || DueByTime(def, now)
}

// DueByDistance reports whether the distance driven since the last
// service has reached the distance interval.
func DueByDistance(def *model.MaintenanceDefinition, currentKM int) bool {
	if def.IntervalKM == nil {
		return false
	}
	return currentKM-def.LastServiceKM >= *def.IntervalKM
}

// DueByTime reports whether the calendar time since the last service
// has reached the month interval.
func DueByTime(def *model.MaintenanceDefinition, now time.Time) bool {
	if def.IntervalMonths == nil {
		return false
	}
	return MonthsBetween(def.LastServicedAt, now) >= *def.IntervalMonths
}

// RemainingKM returns how many kilometres are left until the distance
// threshold, or nil when no distance interval is set. Negative values
// mean the threshold is overdue by that amount.
func RemainingKM(def *model.MaintenanceDefinition, currentKM int) *int {
	due := def.NextDueKM()
	if due == nil {
		return nil
	}
	rest := *due - currentKM
	return &rest
}

// RemainingDays returns the days left until the time threshold, or nil
// when no month interval is set.
func RemainingDays(def *model.MaintenanceDefinition, now time.Time) *int {
	if def.IntervalMonths == nil {
		return nil
	}
	deadline := def.LastServicedAt.AddDate(0, *def.IntervalMonths, 0)
	days := int(deadline.Sub(now).Hours() / 24)
	return &days
}

// MonthsBetween counts whole calendar months elapsed from one instant
// to another. The count only increments once the day-of-month of the
// start has been reached again, so Jan 31 -> Feb 28 is zero months.
// Returns 0 when to precedes from.
func MonthsBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
