package maint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fleet-tracker-backend/internal/model"
)

func intp(v int) *int { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthsBetween(t *testing.T) {
	cases := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same day", date(2025, time.March, 10), date(2025, time.March, 10), 0},
		{"one day short of a month", date(2025, time.March, 10), date(2025, time.April, 9), 0},
		{"exactly one month", date(2025, time.March, 10), date(2025, time.April, 10), 1},
		{"across year boundary", date(2024, time.November, 5), date(2025, time.February, 5), 3},
		{"end of month not reached", date(2025, time.January, 31), date(2025, time.February, 28), 0},
		{"to before from", date(2025, time.June, 1), date(2025, time.May, 1), 0},
		{"several years", date(2022, time.July, 1), date(2025, time.July, 1), 36},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MonthsBetween(tc.from, tc.to))
		})
	}
}

func TestIsDue(t *testing.T) {
	now := date(2025, time.August, 1)

	cases := []struct {
		name      string
		def       model.MaintenanceDefinition
		currentKM int
		want      bool
	}{
		{
			name:      "distance threshold reached exactly",
			def:       model.MaintenanceDefinition{IntervalKM: intp(10000), LastServiceKM: 0, LastServicedAt: now},
			currentKM: 10000,
			want:      true,
		},
		{
			name:      "one km below distance threshold",
			def:       model.MaintenanceDefinition{IntervalKM: intp(10000), LastServiceKM: 0, LastServicedAt: now},
			currentKM: 9999,
			want:      false,
		},
		{
			name:      "distance counts from last service, not zero",
			def:       model.MaintenanceDefinition{IntervalKM: intp(15000), LastServiceKM: 40000, LastServicedAt: now},
			currentKM: 54000,
			want:      false,
		},
		{
			name:      "time threshold reached",
			def:       model.MaintenanceDefinition{IntervalMonths: intp(24), LastServicedAt: date(2023, time.July, 1)},
			currentKM: 0,
			want:      true,
		},
		{
			name:      "time threshold not reached",
			def:       model.MaintenanceDefinition{IntervalMonths: intp(24), LastServicedAt: date(2024, time.January, 1)},
			currentKM: 0,
			want:      false,
		},
		{
			name: "both intervals, only time crossed, still due",
			def: model.MaintenanceDefinition{
				IntervalKM:     intp(15000),
				IntervalMonths: intp(12),
				LastServiceKM:  50000,
				LastServicedAt: date(2024, time.June, 1),
			},
			currentKM: 51000,
			want:      true,
		},
		{
			name: "both intervals, only distance crossed, still due",
			def: model.MaintenanceDefinition{
				IntervalKM:     intp(15000),
				IntervalMonths: intp(12),
				LastServiceKM:  50000,
				LastServicedAt: date(2025, time.June, 1),
			},
			currentKM: 65000,
			want:      true,
		},
		{
			name: "both intervals, neither crossed",
			def: model.MaintenanceDefinition{
				IntervalKM:     intp(15000),
				IntervalMonths: intp(12),
				LastServiceKM:  50000,
				LastServicedAt: date(2025, time.June, 1),
			},
			currentKM: 51000,
			want:      false,
		},
		{
			name:      "no intervals set, never due",
			def:       model.MaintenanceDefinition{LastServicedAt: date(2020, time.January, 1)},
			currentKM: 999999,
			want:      false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDue(&tc.def, tc.currentKM, now))
		})
	}
}

func TestRemaining(t *testing.T) {
	now := date(2025, time.August, 1)
	def := model.MaintenanceDefinition{
		IntervalKM:     intp(15000),
		IntervalMonths: intp(12),
		LastServiceKM:  40000,
		LastServicedAt: date(2025, time.February, 1),
	}

	restKM := RemainingKM(&def, 52000)
	if assert.NotNil(t, restKM) {
		assert.Equal(t, 3000, *restKM)
	}

	restDays := RemainingDays(&def, now)
	if assert.NotNil(t, restDays) {
		// Feb 1 2026 is 184 days after Aug 1 2025.
		assert.Equal(t, 184, *restDays)
	}

	overdue := RemainingKM(&def, 60000)
	if assert.NotNil(t, overdue) {
		assert.Equal(t, -5000, *overdue)
	}

	bare := model.MaintenanceDefinition{LastServicedAt: now}
	assert.Nil(t, RemainingKM(&bare, 0))
	assert.Nil(t, RemainingDays(&bare, now))
}
