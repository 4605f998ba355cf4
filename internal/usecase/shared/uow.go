package shared

import (
	"context"
	"time"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Bookings() BookingRepository
	Equipment() EquipmentRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Reads() CommandReads
	DB() db.DBTX
	// LockEquipment serializes the conflict-check-then-create sequence
	// per equipment for the remainder of the transaction.
	LockEquipment(ctx context.Context, equipmentID uuid.UUID) error
}

type CommandReads interface {
	EquipmentByID(ctx context.Context, id uuid.UUID) (*EquipmentSnapshot, error)
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	BlockedRanges(ctx context.Context, equipmentID uuid.UUID) ([]booking.DateRange, error)
	HasConflict(ctx context.Context, equipmentID uuid.UUID, candidate booking.DateRange) (bool, error)
	ActiveBookingCount(ctx context.Context, equipmentID uuid.UUID) (int64, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

// Write-side snapshots prevent dependency on read-side query types
type EquipmentSnapshot struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Name             string
	DailyRateCents   *int64
	MonthlyRateCents *int64
	IsAvailable      bool
	ForRent          bool
}

type BookingSnapshot struct {
	ID              uuid.UUID
	EquipmentID     uuid.UUID
	RenterID        uuid.UUID
	OwnerID         uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	TotalPriceCents int64
	Status          string
	RenterName      string
	RenterPhone     string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Status          string
	RequestHash     string
	ResultBookingID *uuid.UUID
	ExpiresAt       time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) (uuid.UUID, error)
	// UpdateStatus persists a lifecycle transition with a
	// compare-and-swap on the previous status; a lost race surfaces as
	// a conflict, never as a partial transition.
	UpdateStatus(ctx context.Context, b *booking.Booking, prev booking.Status) error
	// ListCompletable returns ids of confirmed bookings whose period
	// ended on or before the given day.
	ListCompletable(ctx context.Context, endedBy time.Time, limit int32) ([]uuid.UUID, error)
}

type EquipmentRepository interface {
	// Delete purges the catalog row only. Bookings referencing the
	// equipment are left in place by design.
	Delete(ctx context.Context, id uuid.UUID) error
}

type IdempotencyRepository interface {
	// TryInsert claims the key for this request. claimed is false when a
	// previous request already holds the key.
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (claimed bool, err error)
	UpdateStatusCompleted(ctx context.Context, key, userID uuid.UUID, resultBookingID uuid.UUID) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
