package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fleet-tracker-backend/internal/maint"
	"fleet-tracker-backend/internal/model"
)

// DashboardRow is one vehicle's line on the fleet dashboard: current
// reading, who reported last and when, whether the latest submission
// link is still open, and how far each maintenance item is from its
// thresholds.
type DashboardRow struct {
	Vehicle       model.Vehicle   `json:"vehicle"`
	LastDriver    *string         `json:"last_driver,omitempty"`
	LastEntryAt   *time.Time      `json:"last_entry_at,omitempty"`
	LastRequestAt *time.Time      `json:"last_request_at,omitempty"`
	LinkOpen      bool            `json:"link_open"`
	Maintenance   []DashboardItem `json:"maintenance"`
}

// DashboardItem is the evaluated view of one maintenance definition.
type DashboardItem struct {
	Definition    model.MaintenanceDefinition `json:"definition"`
	NextDueKM     *int                        `json:"next_due_km,omitempty"`
	RemainingKM   *int                        `json:"remaining_km,omitempty"`
	RemainingDays *int                        `json:"remaining_days,omitempty"`
	Due           bool                        `json:"due"`
}

// Dashboard assembles the dashboard rows for all vehicles in creation
// order. Read-only: due items are reported but the notification flag is
// untouched, that is EvaluateVehicle's job.
func (s *gormStore) Dashboard(ctx context.Context, now time.Time) ([]DashboardRow, error) {
	db := s.db.WithContext(ctx)

	var vehicles []model.Vehicle
	if err := db.Order("id").Find(&vehicles).Error; err != nil {
		return nil, err
	}

	rows := make([]DashboardRow, 0, len(vehicles))
	for _, v := range vehicles {
		row := DashboardRow{Vehicle: v}

		var lastEntry model.MileageEntry
		err := db.Where("vehicle_id = ?", v.ID).
			Order("recorded_at DESC, id DESC").
			First(&lastEntry).Error
		switch {
		case err == nil:
			row.LastDriver = &lastEntry.DriverName
			row.LastEntryAt = &lastEntry.RecordedAt
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}

		var lastReq model.MileageRequest
		err = db.Where("vehicle_id = ?", v.ID).
			Order("created_at DESC, id DESC").
			First(&lastReq).Error
		switch {
		case err == nil:
			row.LastRequestAt = &lastReq.CreatedAt
			row.LinkOpen = !lastReq.Consumed
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}

		var defs []model.MaintenanceDefinition
		if err := db.Where("vehicle_id = ?", v.ID).Order("id").Find(&defs).Error; err != nil {
			return nil, err
		}
		row.Maintenance = make([]DashboardItem, 0, len(defs))
		for i := range defs {
			def := defs[i]
			row.Maintenance = append(row.Maintenance, DashboardItem{
				Definition:    def,
				NextDueKM:     def.NextDueKM(),
				RemainingKM:   maint.RemainingKM(&def, v.CurrentKM),
				RemainingDays: maint.RemainingDays(&def, now),
				Due:           maint.IsDue(&def, v.CurrentKM, now),
			})
		}

		rows = append(rows, row)
	}
	return rows, nil
}
