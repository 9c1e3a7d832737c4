package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"fleet-tracker-backend/internal/model"
	"fleet-tracker-backend/internal/token"
)

// PendingSubmission is what the public submission form needs to render:
// the vehicle behind a still-valid token and the reading we asked for.
type PendingSubmission struct {
	RequestID    int64  `json:"-"`
	VehicleID    int64  `json:"-"`
	Plate        string `json:"plate"`
	VehicleModel string `json:"model"`
	ExpectedKM   int    `json:"expected_km"`
}

// IssueMileageRequest creates a single-use submission request for a
// vehicle. The returned plaintext token exists only in this return
// value; the table keeps a salted digest.
func (s *gormStore) IssueMileageRequest(ctx context.Context, vehicleID int64, expectedKM int) (*model.MileageRequest, string, error) {
	if expectedKM < 0 {
		return nil, "", fmt.Errorf("%w: expected km must not be negative", ErrValidation)
	}

	plaintext, err := token.Generate()
	if err != nil {
		return nil, "", err
	}
	salt, err := token.NewSalt()
	if err != nil {
		return nil, "", err
	}
	digest, err := token.Digest(plaintext, salt)
	if err != nil {
		return nil, "", err
	}

	req := model.MileageRequest{
		VehicleID:   vehicleID,
		ExpectedKM:  expectedKM,
		TokenDigest: digest,
		TokenSalt:   salt,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v model.Vehicle
		if err := tx.First(&v, vehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: vehicle %d", ErrNotFound, vehicleID)
			}
			return err
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &req, plaintext, nil
}

// findPendingByToken resolves a plaintext token to its pending request.
// Digests are salted per row, so candidates are compared one by one in
// constant time. Every failure mode collapses into ErrInvalidToken.
func findPendingByToken(tx *gorm.DB, plaintext string) (*model.MileageRequest, error) {
	if plaintext == "" {
		return nil, ErrInvalidToken
	}
	var pending []model.MileageRequest
	if err := tx.Where("consumed = ?", false).Find(&pending).Error; err != nil {
		return nil, err
	}
	for i := range pending {
		if token.Matches(plaintext, pending[i].TokenSalt, pending[i].TokenDigest) {
			return &pending[i], nil
		}
	}
	return nil, ErrInvalidToken
}

// LookupRequest validates a token without consuming it, for rendering
// the submission form.
func (s *gormStore) LookupRequest(ctx context.Context, plaintext string) (*PendingSubmission, error) {
	tx := s.db.WithContext(ctx)
	req, err := findPendingByToken(tx, plaintext)
	if err != nil {
		return nil, err
	}
	var v model.Vehicle
	if err := tx.First(&v, req.VehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return &PendingSubmission{
		RequestID:    req.ID,
		VehicleID:    v.ID,
		Plate:        v.Plate,
		VehicleModel: v.Model,
		ExpectedKM:   req.ExpectedKM,
	}, nil
}

// SubmitMileage records an odometer reading against a pending request.
// One transaction covers the whole state change: the token is consumed
// via a conditional update (so two racing submissions yield exactly one
// success), the vehicle row is advanced under an optimistic version
// check, and the immutable entry is inserted. Any failure rolls back
// all three.
func (s *gormStore) SubmitMileage(ctx context.Context, plaintext string, reportedKM int, driverName string) (*model.MileageEntry, error) {
	driverName = strings.TrimSpace(driverName)
	if driverName == "" {
		return nil, fmt.Errorf("%w: driver name is required", ErrValidation)
	}
	if reportedKM < 0 {
		return nil, fmt.Errorf("%w: odometer must not be negative", ErrValidation)
	}

	var entry model.MileageEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		req, err := findPendingByToken(tx, plaintext)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		res := tx.Model(&model.MileageRequest{}).
			Where("id = ? AND consumed = ?", req.ID, false).
			Updates(map[string]any{"consumed": true, "consumed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race against another submission of the same token.
			return ErrInvalidToken
		}

		var v model.Vehicle
		if err := tx.First(&v, req.VehicleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: vehicle %d", ErrNotFound, req.VehicleID)
			}
			return err
		}
		if reportedKM < v.CurrentKM {
			return fmt.Errorf("%w: reported km %d below current odometer %d", ErrValidation, reportedKM, v.CurrentKM)
		}

		res = tx.Model(&model.Vehicle{}).
			Where("id = ? AND version = ?", v.ID, v.Version).
			Updates(map[string]any{"current_km": reportedKM, "version": v.Version + 1})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: vehicle %d", ErrConflict, v.ID)
		}

		entry = model.MileageEntry{
			VehicleID:  v.ID,
			RequestID:  req.ID,
			KM:         reportedKM,
			DriverName: driverName,
			RecordedAt: now,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListMileageEntries returns a vehicle's entries, newest first.
func (s *gormStore) ListMileageEntries(ctx context.Context, vehicleID int64) ([]model.MileageEntry, error) {
	if _, err := s.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}
	var entries []model.MileageEntry
	err := s.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("recorded_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
