//go:build unit

package commands_test

import (
	"context"
	"time"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/infra"
	"heavyhub/internal/infra/db"
	"heavyhub/internal/usecase/queries"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
)

// In-memory stand-in for the persistence layer. One store backs the
// unit of work, the command reads, and the query repo so a test sees a
// single consistent world.
type fakeStore struct {
	equipment   map[uuid.UUID]*shared.EquipmentSnapshot
	bookings    map[uuid.UUID]*shared.BookingSnapshot
	idempotency map[string]*shared.IdempotencyRecord

	jobs            []fakeJob
	lockedEquipment []uuid.UUID
}

type fakeJob struct {
	kind    string
	topic   string
	payload []byte
	runAt   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		equipment:   make(map[uuid.UUID]*shared.EquipmentSnapshot),
		bookings:    make(map[uuid.UUID]*shared.BookingSnapshot),
		idempotency: make(map[string]*shared.IdempotencyRecord),
	}
}

func idemKey(key, userID uuid.UUID) string {
	return key.String() + "/" + userID.String()
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Bookings() shared.BookingRepository { return &fakeBookingRepo{store: t.store} }

func (t *fakeTx) Equipment() shared.EquipmentRepository { return &fakeEquipmentRepo{store: t.store} }

func (t *fakeTx) Idempotency() shared.IdempotencyRepository {
	return &fakeIdempotencyRepo{store: t.store}
}

func (t *fakeTx) Notifications() shared.NotificationRepository {
	return &fakeNotificationRepo{store: t.store}
}

func (t *fakeTx) Reads() shared.CommandReads { return &fakeReads{store: t.store} }

func (t *fakeTx) DB() db.DBTX { return nil }

func (t *fakeTx) LockEquipment(_ context.Context, equipmentID uuid.UUID) error {
	t.store.lockedEquipment = append(t.store.lockedEquipment, equipmentID)
	return nil
}

type fakeReads struct {
	store *fakeStore
}

func (r *fakeReads) EquipmentByID(_ context.Context, id uuid.UUID) (*shared.EquipmentSnapshot, error) {
	snap, ok := r.store.equipment[id]
	if !ok {
		return nil, notFoundErr("equipment not found")
	}
	return snap, nil
}

func (r *fakeReads) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	snap, ok := r.store.bookings[id]
	if !ok {
		return nil, notFoundErr("booking not found")
	}
	return snap, nil
}

func (r *fakeReads) BlockedRanges(_ context.Context, equipmentID uuid.UUID) ([]booking.DateRange, error) {
	var out []booking.DateRange
	for _, snap := range r.store.bookings {
		if snap.EquipmentID != equipmentID || !booking.Status(snap.Status).Blocks() {
			continue
		}
		dr, err := booking.NewDateRange(snap.StartDate, snap.EndDate)
		if err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	return out, nil
}

func (r *fakeReads) HasConflict(ctx context.Context, equipmentID uuid.UUID, candidate booking.DateRange) (bool, error) {
	ranges, err := r.BlockedRanges(ctx, equipmentID)
	if err != nil {
		return false, err
	}
	for _, dr := range ranges {
		if dr.Overlaps(candidate) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReads) ActiveBookingCount(_ context.Context, equipmentID uuid.UUID) (int64, error) {
	var count int64
	for _, snap := range r.store.bookings {
		if snap.EquipmentID == equipmentID && booking.Status(snap.Status).Blocks() {
			count++
		}
	}
	return count, nil
}

func (r *fakeReads) IdempotencyByKey(_ context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	rec, ok := r.store.idempotency[idemKey(key, userID)]
	if !ok {
		return nil, notFoundErr("idempotency key not found")
	}
	return rec, nil
}

type fakeBookingRepo struct {
	store *fakeStore
}

func (r *fakeBookingRepo) Create(_ context.Context, b *booking.Booking) (uuid.UUID, error) {
	r.store.bookings[b.ID()] = &shared.BookingSnapshot{
		ID:              b.ID(),
		EquipmentID:     b.EquipmentID(),
		RenterID:        b.RenterID(),
		OwnerID:         b.OwnerID(),
		StartDate:       b.Range().Start(),
		EndDate:         b.Range().End(),
		TotalPriceCents: b.TotalPrice().Cents(),
		Status:          b.Status().String(),
		RenterName:      b.Contact().Name(),
		RenterPhone:     b.Contact().Phone(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
	return b.ID(), nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, b *booking.Booking, prev booking.Status) error {
	snap, ok := r.store.bookings[b.ID()]
	if !ok || snap.Status != prev.String() {
		return infra.WrapRepoErr("booking status changed concurrently", nil, infra.KindConflict)
	}
	snap.Status = b.Status().String()
	snap.UpdatedAt = b.UpdatedAt()
	return nil
}

func (r *fakeBookingRepo) ListCompletable(_ context.Context, endedBy time.Time, limit int32) ([]uuid.UUID, error) {
	var out []uuid.UUID
	for id, snap := range r.store.bookings {
		if snap.Status == booking.StatusConfirmed.String() && !snap.EndDate.After(endedBy) {
			out = append(out, id)
		}
		if int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

type fakeEquipmentRepo struct {
	store *fakeStore
}

func (r *fakeEquipmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.equipment[id]; !ok {
		return notFoundErr("equipment not found")
	}
	delete(r.store.equipment, id)
	return nil
}

type fakeIdempotencyRepo struct {
	store *fakeStore
}

func (r *fakeIdempotencyRepo) TryInsert(_ context.Context, key, userID uuid.UUID, _, requestHash string, expiresAt time.Time) (bool, error) {
	k := idemKey(key, userID)
	if _, ok := r.store.idempotency[k]; ok {
		return false, nil
	}
	r.store.idempotency[k] = &shared.IdempotencyRecord{
		Key:         key,
		UserID:      userID,
		Status:      "processing",
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}
	return true, nil
}

func (r *fakeIdempotencyRepo) UpdateStatusCompleted(_ context.Context, key, userID uuid.UUID, resultBookingID uuid.UUID) error {
	rec, ok := r.store.idempotency[idemKey(key, userID)]
	if !ok {
		return notFoundErr("idempotency key not found")
	}
	rec.Status = "completed"
	rec.ResultBookingID = &resultBookingID
	return nil
}

type fakeNotificationRepo struct {
	store *fakeStore
}

func (r *fakeNotificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.store.jobs = append(r.store.jobs, fakeJob{kind: kind, topic: topic, payload: payload, runAt: runAt})
	return nil
}

// fakeViewRepo serves the read side from the same store, so views
// returned after a command reflect exactly what the command wrote.
type fakeViewRepo struct {
	store *fakeStore
}

func (r *fakeViewRepo) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	snap, ok := r.store.bookings[id]
	if !ok {
		return nil, notFoundErr("booking not found")
	}

	equipmentName := ""
	if equip, ok := r.store.equipment[snap.EquipmentID]; ok {
		equipmentName = equip.Name
	}

	return &queries.BookingView{
		ID:              snap.ID,
		EquipmentID:     snap.EquipmentID,
		EquipmentName:   equipmentName,
		RenterID:        snap.RenterID,
		OwnerID:         snap.OwnerID,
		StartDate:       snap.StartDate,
		EndDate:         snap.EndDate,
		Status:          snap.Status,
		TotalPriceCents: snap.TotalPriceCents,
		RenterName:      snap.RenterName,
		RenterPhone:     snap.RenterPhone,
		CreatedAt:       snap.CreatedAt,
		UpdatedAt:       snap.UpdatedAt,
	}, nil
}

func (r *fakeViewRepo) FindByRenterID(_ context.Context, renterID uuid.UUID) ([]*queries.BookingListItem, error) {
	return nil, nil
}

func (r *fakeViewRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID) ([]*queries.BookingListItem, error) {
	return nil, nil
}

func (r *fakeViewRepo) BlockedRanges(ctx context.Context, equipmentID uuid.UUID) ([]booking.DateRange, error) {
	return (&fakeReads{store: r.store}).BlockedRanges(ctx, equipmentID)
}
