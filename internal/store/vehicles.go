package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fleet-tracker-backend/internal/model"
)

// VehicleUpdate carries the optional fields of an administrative
// vehicle edit. Nil fields are left untouched.
type VehicleUpdate struct {
	Plate     *string
	Model     *string
	Status    *model.VehicleStatus
	CurrentKM *int
}

func validStatus(st model.VehicleStatus) bool {
	switch st {
	case model.VehicleActive, model.VehicleInactive, model.VehicleInMaintenance:
		return true
	}
	return false
}

// translateDuplicate maps a driver-level unique violation on the plate
// index to ErrDuplicatePlate. Works for both postgres and sqlite.
func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(strings.ToUpper(msg), "UNIQUE") {
		return fmt.Errorf("%w: %s", ErrDuplicatePlate, msg)
	}
	return err
}

func (s *gormStore) CreateVehicle(ctx context.Context, v *model.Vehicle) error {
	v.Plate = strings.TrimSpace(v.Plate)
	if v.Plate == "" {
		return fmt.Errorf("%w: plate is required", ErrValidation)
	}
	if v.CurrentKM < 0 {
		return fmt.Errorf("%w: odometer must not be negative", ErrValidation)
	}
	if v.Status == "" {
		v.Status = model.VehicleActive
	}
	if !validStatus(v.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, v.Status)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Vehicle{}).Where("plate = ?", v.Plate).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicatePlate, v.Plate)
		}
		return translateDuplicate(tx.Create(v).Error)
	})
}

func (s *gormStore) GetVehicle(ctx context.Context, id int64) (*model.Vehicle, error) {
	var v model.Vehicle
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &v, nil
}

// UpdateVehicle applies an administrative edit under an optimistic
// version check. An odometer correction is allowed to decrease the
// reading here; only driver submissions are bound to monotonicity.
func (s *gormStore) UpdateVehicle(ctx context.Context, id int64, upd VehicleUpdate) (*model.Vehicle, error) {
	var updated model.Vehicle
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Vehicle
		if err := tx.First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
			}
			return err
		}

		fields := map[string]any{"version": v.Version + 1}
		if upd.Plate != nil {
			plate := strings.TrimSpace(*upd.Plate)
			if plate == "" {
				return fmt.Errorf("%w: plate is required", ErrValidation)
			}
			if plate != v.Plate {
				var count int64
				if err := tx.Model(&model.Vehicle{}).Where("plate = ? AND id <> ?", plate, id).Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return fmt.Errorf("%w: %s", ErrDuplicatePlate, plate)
				}
			}
			fields["plate"] = plate
		}
		if upd.Model != nil {
			fields["model"] = *upd.Model
		}
		if upd.Status != nil {
			if !validStatus(*upd.Status) {
				return fmt.Errorf("%w: unknown status %q", ErrValidation, *upd.Status)
			}
			fields["status"] = *upd.Status
		}
		if upd.CurrentKM != nil {
			if *upd.CurrentKM < 0 {
				return fmt.Errorf("%w: odometer must not be negative", ErrValidation)
			}
			fields["current_km"] = *upd.CurrentKM
		}

		res := tx.Model(&model.Vehicle{}).
			Where("id = ? AND version = ?", v.ID, v.Version).
			Updates(fields)
		if res.Error != nil {
			return translateDuplicate(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: vehicle %d", ErrConflict, id)
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ListVehicles returns vehicles in creation order, optionally filtered
// by status.
func (s *gormStore) ListVehicles(ctx context.Context, status model.VehicleStatus) ([]model.Vehicle, error) {
	q := s.db.WithContext(ctx).Order("id")
	if status != "" {
		if !validStatus(status) {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		q = q.Where("status = ?", status)
	}
	var vehicles []model.Vehicle
	if err := q.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

// DeleteVehicle removes a vehicle together with its maintenance
// definitions and open mileage requests. Deletion is refused while
// mileage entries exist: the entries are an audit trail and silently
// discarding them would falsify the fleet history.
func (s *gormStore) DeleteVehicle(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Vehicle
		if err := tx.First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: vehicle %d", ErrNotFound, id)
			}
			return err
		}

		var entries int64
		if err := tx.Model(&model.MileageEntry{}).Where("vehicle_id = ?", id).Count(&entries).Error; err != nil {
			return err
		}
		if entries > 0 {
			return fmt.Errorf("%w: vehicle %d has %d mileage entries", ErrValidation, id, entries)
		}

		if err := tx.Where("vehicle_id = ?", id).Delete(&model.MaintenanceDefinition{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&model.MileageRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Vehicle{}, id).Error
	})
}
