package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fleet-tracker-backend/internal/model"
)

// Store defines all persistence operations of the fleet tracker.
type Store interface {
	DB() *gorm.DB

	// Vehicle registry
	CreateVehicle(ctx context.Context, v *model.Vehicle) error
	GetVehicle(ctx context.Context, id int64) (*model.Vehicle, error)
	UpdateVehicle(ctx context.Context, id int64, upd VehicleUpdate) (*model.Vehicle, error)
	ListVehicles(ctx context.Context, status model.VehicleStatus) ([]model.Vehicle, error)
	DeleteVehicle(ctx context.Context, id int64) error
	Dashboard(ctx context.Context, now time.Time) ([]DashboardRow, error)

	// Mileage requests and entries
	IssueMileageRequest(ctx context.Context, vehicleID int64, expectedKM int) (*model.MileageRequest, string, error)
	LookupRequest(ctx context.Context, plaintext string) (*PendingSubmission, error)
	SubmitMileage(ctx context.Context, plaintext string, reportedKM int, driverName string) (*model.MileageEntry, error)
	ListMileageEntries(ctx context.Context, vehicleID int64) ([]model.MileageEntry, error)

	// Maintenance definitions
	CreateDefinition(ctx context.Context, def *model.MaintenanceDefinition) error
	UpdateDefinition(ctx context.Context, id int64, upd DefinitionUpdate) (*model.MaintenanceDefinition, error)
	DeleteDefinition(ctx context.Context, id int64) error
	ListDefinitions(ctx context.Context, vehicleID int64) ([]model.MaintenanceDefinition, error)
	EvaluateVehicle(ctx context.Context, vehicleID int64, now time.Time) ([]model.MaintenanceDefinition, error)
	PerformService(ctx context.Context, definitionID int64, serviceDate time.Time) (*model.MaintenanceDefinition, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying handle for handlers that run plain queries.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
