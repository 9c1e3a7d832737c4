package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"fleet-tracker-backend/internal/maint"
	"fleet-tracker-backend/internal/model"
)

// DefinitionUpdate carries the optional fields of a maintenance
// definition edit. Nil fields are left untouched; ClearIntervalKM /
// ClearIntervalMonths drop an interval entirely.
type DefinitionUpdate struct {
	Kind                *string
	IntervalKM          *int
	IntervalMonths      *int
	ClearIntervalKM     bool
	ClearIntervalMonths bool
}

func validateIntervals(intervalKM, intervalMonths *int) error {
	if intervalKM == nil && intervalMonths == nil {
		return fmt.Errorf("%w: at least one of interval_km and interval_months is required", ErrValidation)
	}
	if intervalKM != nil && *intervalKM <= 0 {
		return fmt.Errorf("%w: interval_km must be positive", ErrValidation)
	}
	if intervalMonths != nil && *intervalMonths <= 0 {
		return fmt.Errorf("%w: interval_months must be positive", ErrValidation)
	}
	return nil
}

func (s *gormStore) CreateDefinition(ctx context.Context, def *model.MaintenanceDefinition) error {
	def.Kind = strings.TrimSpace(def.Kind)
	if def.Kind == "" {
		return fmt.Errorf("%w: kind is required", ErrValidation)
	}
	if err := validateIntervals(def.IntervalKM, def.IntervalMonths); err != nil {
		return err
	}
	if def.LastServiceKM < 0 {
		return fmt.Errorf("%w: last service km must not be negative", ErrValidation)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Vehicle
		if err := tx.First(&v, def.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: vehicle %d", ErrNotFound, def.VehicleID)
			}
			return err
		}
		if def.LastServicedAt.IsZero() {
			def.LastServicedAt = time.Now().UTC()
		}
		def.NotificationSent = false
		return tx.Create(def).Error
	})
}

func (s *gormStore) getDefinition(ctx context.Context, id int64) (*model.MaintenanceDefinition, error) {
	var def model.MaintenanceDefinition
	if err := s.db.WithContext(ctx).First(&def, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: maintenance definition %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &def, nil
}

func (s *gormStore) UpdateDefinition(ctx context.Context, id int64, upd DefinitionUpdate) (*model.MaintenanceDefinition, error) {
	var updated model.MaintenanceDefinition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var def model.MaintenanceDefinition
		if err := tx.First(&def, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: maintenance definition %d", ErrNotFound, id)
			}
			return err
		}

		fields := map[string]any{}
		if upd.Kind != nil {
			kind := strings.TrimSpace(*upd.Kind)
			if kind == "" {
				return fmt.Errorf("%w: kind is required", ErrValidation)
			}
			fields["kind"] = kind
		}

		nextKM := def.IntervalKM
		nextMonths := def.IntervalMonths
		if upd.ClearIntervalKM {
			nextKM = nil
			fields["interval_km"] = nil
		} else if upd.IntervalKM != nil {
			nextKM = upd.IntervalKM
			fields["interval_km"] = *upd.IntervalKM
		}
		if upd.ClearIntervalMonths {
			nextMonths = nil
			fields["interval_months"] = nil
		} else if upd.IntervalMonths != nil {
			nextMonths = upd.IntervalMonths
			fields["interval_months"] = *upd.IntervalMonths
		}
		if err := validateIntervals(nextKM, nextMonths); err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.Model(&model.MaintenanceDefinition{}).Where("id = ?", id).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *gormStore) DeleteDefinition(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&model.MaintenanceDefinition{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: maintenance definition %d", ErrNotFound, id)
	}
	return nil
}

func (s *gormStore) ListDefinitions(ctx context.Context, vehicleID int64) ([]model.MaintenanceDefinition, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	var defs []model.MaintenanceDefinition
	err := s.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).Order("id").Find(&defs).Error
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// EvaluateVehicle checks every definition of a vehicle against the
// current odometer and clock and returns the ones that just became due.
// The notification flag is armed with a conditional update, so out of
// any number of concurrent evaluations exactly one reports a given due
// event — callers can hand the result straight to the notification
// channel without deduplicating.
func (s *gormStore) EvaluateVehicle(ctx context.Context, vehicleID int64, now time.Time) ([]model.MaintenanceDefinition, error) {
	var newlyDue []model.MaintenanceDefinition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Vehicle
		if err := tx.First(&v, vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
			}
			return err
		}

		var defs []model.MaintenanceDefinition
		if err := tx.Where("vehicle_id = ?", vehicleID).Order("id").Find(&defs).Error; err != nil {
			return err
		}

		for i := range defs {
			def := &defs[i]
			if !maint.IsDue(def, v.CurrentKM, now) || def.NotificationSent {
				continue
			}
			res := tx.Model(&model.MaintenanceDefinition{}).
				Where("id = ? AND notification_sent = ?", def.ID, false).
				Update("notification_sent", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Another evaluation already claimed this due event.
				continue
			}
			def.NotificationSent = true
			newlyDue = append(newlyDue, *def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newlyDue, nil
}

// PerformService logs a completed maintenance: the baseline moves to
// the service date and the vehicle's odometer at that point, and the
// notification flag is cleared, rearming the next interval.
func (s *gormStore) PerformService(ctx context.Context, definitionID int64, serviceDate time.Time) (*model.MaintenanceDefinition, error) {
	if serviceDate.IsZero() {
		return nil, fmt.Errorf("%w: service date is required", ErrValidation)
	}

	var updated model.MaintenanceDefinition
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var def model.MaintenanceDefinition
		if err := tx.First(&def, definitionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: maintenance definition %d", ErrNotFound, definitionID)
			}
			return err
		}
		var v model.Vehicle
		if err := tx.First(&v, def.VehicleID).Error; err != nil {
			return err
		}

		res := tx.Model(&model.MaintenanceDefinition{}).
			Where("id = ?", definitionID).
			Updates(map[string]any{
				"last_serviced_at":  serviceDate.UTC(),
				"last_service_km":   v.CurrentKM,
				"notification_sent": false,
			})
		if res.Error != nil {
			return res.Error
		}
		return tx.First(&updated, definitionID).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
