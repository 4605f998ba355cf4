//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/pkg/clock"
	"heavyhub/internal/usecase/commands"
	"heavyhub/internal/usecase/queries"
	"heavyhub/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHorizonDays = 180

type bookingFixture struct {
	store *fakeStore
	clock *clock.MockClock
	cmds  commands.BookingCommands
	b     *builder.BookingBuilder
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	b := builder.NewBookingBuilder()
	store := newFakeStore()
	store.equipment[b.EquipmentID] = builder.NewEquipmentBuilder().
		With(func(e *builder.EquipmentBuilder) {
			e.ID = b.EquipmentID
			e.OwnerID = b.OwnerID
		}).
		BuildSnapshot()

	clk := clock.NewMockClock(b.Now)
	uow := &fakeUoW{store: store}
	bookingQueries := queries.NewBookingQueries(&fakeViewRepo{store: store})

	return &bookingFixture{
		store: store,
		clock: clk,
		cmds:  commands.NewBookingUseCase(uow, bookingQueries, clk, testHorizonDays),
		b:     b,
	}
}

func (f *bookingFixture) request(t *testing.T, key uuid.UUID) (*commands.RequestBookingResult, error) {
	t.Helper()
	return f.cmds.RequestBooking(context.Background(), f.b.BuildCreateRequestDTO(), f.b.RenterID, key)
}

func (f *bookingFixture) seedBooking(status booking.Status) uuid.UUID {
	id := uuid.New()
	f.store.bookings[id] = f.b.BuildSnapshot(id)
	f.store.bookings[id].Status = status.String()
	return id
}

func TestRequestBooking(t *testing.T) {
	t.Run("creates a pending booking with the quoted price", func(t *testing.T) {
		f := newBookingFixture(t)

		result, err := f.request(t, uuid.New())
		require.NoError(t, err)
		require.NotNil(t, result.Booking)

		assert.False(t, result.IsReplayed)
		assert.Equal(t, booking.StatusPending.String(), result.Booking.Status)
		// 5 days at the default daily rate of 50000 cents
		assert.Equal(t, int64(250_000), result.Booking.TotalPriceCents)
		assert.Equal(t, f.b.OwnerID, result.Booking.OwnerID)
		assert.Equal(t, "CAT 320 Excavator", result.Booking.EquipmentName)

		require.Len(t, f.store.bookings, 1)
		assert.Equal(t, []uuid.UUID{f.b.EquipmentID}, f.store.lockedEquipment, "conflict check must run under the equipment lock")

		require.Len(t, f.store.jobs, 1)
		assert.Equal(t, "booking_created", f.store.jobs[0].topic)
		assert.Equal(t, "email", f.store.jobs[0].kind)
	})

	t.Run("monthly tier applies from thirty days", func(t *testing.T) {
		f := newBookingFixture(t)
		f.b.EndDate = f.b.StartDate.AddDate(0, 0, 30)

		result, err := f.request(t, uuid.New())
		require.NoError(t, err)
		// one month at the default monthly rate
		assert.Equal(t, int64(1_000_000), result.Booking.TotalPriceCents)
	})

	t.Run("malformed range is rejected before any read", func(t *testing.T) {
		f := newBookingFixture(t)
		f.b.EndDate = f.b.StartDate

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrInvalidDateRange)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		f := newBookingFixture(t)
		f.b.EquipmentID = uuid.New()

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrEquipmentNotFound)
	})

	t.Run("owners cannot book their own equipment", func(t *testing.T) {
		f := newBookingFixture(t)
		f.b.RenterID = f.b.OwnerID

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrSelfBooking)
	})

	t.Run("unavailable equipment", func(t *testing.T) {
		f := newBookingFixture(t)
		f.store.equipment[f.b.EquipmentID].IsAvailable = false

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrEquipmentUnavailable)
	})

	t.Run("equipment not offered for rent", func(t *testing.T) {
		f := newBookingFixture(t)
		f.store.equipment[f.b.EquipmentID].ForRent = false

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrEquipmentUnavailable)
	})

	t.Run("range starting in the past", func(t *testing.T) {
		f := newBookingFixture(t)
		f.clock.Set(f.b.StartDate.AddDate(0, 0, 2))

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrRangeOutOfBounds)
	})

	t.Run("range starting today is accepted", func(t *testing.T) {
		f := newBookingFixture(t)
		f.clock.Set(f.b.StartDate.Add(9 * time.Hour))

		_, err := f.request(t, uuid.New())
		require.NoError(t, err)
	})

	t.Run("range ending beyond the booking horizon", func(t *testing.T) {
		f := newBookingFixture(t)
		f.b.EndDate = f.b.Now.AddDate(0, 0, testHorizonDays+1)

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrRangeOutOfBounds)
	})

	t.Run("out-of-bounds range wins over unavailable equipment", func(t *testing.T) {
		f := newBookingFixture(t)
		f.store.equipment[f.b.EquipmentID].IsAvailable = false
		f.clock.Set(f.b.StartDate.AddDate(0, 0, 2))

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrRangeOutOfBounds)
	})

	t.Run("no rate covers the duration", func(t *testing.T) {
		f := newBookingFixture(t)
		f.store.equipment[f.b.EquipmentID].MonthlyRateCents = nil
		f.b.EndDate = f.b.StartDate.AddDate(0, 0, 30)

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrRateUnavailable)
	})

	t.Run("overlapping booking blocks the request", func(t *testing.T) {
		f := newBookingFixture(t)
		held := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.EquipmentID = f.b.EquipmentID
			b.StartDate = f.b.StartDate.AddDate(0, 0, 2)
			b.EndDate = f.b.EndDate.AddDate(0, 0, 2)
			b.Status = booking.StatusConfirmed
		})
		f.store.bookings[uuid.New()] = held.BuildSnapshot(uuid.New())

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrDateConflict)
	})

	t.Run("date conflict wins over an uncovered rate", func(t *testing.T) {
		f := newBookingFixture(t)
		f.store.equipment[f.b.EquipmentID].MonthlyRateCents = nil
		f.b.EndDate = f.b.StartDate.AddDate(0, 0, 30)
		held := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.EquipmentID = f.b.EquipmentID
			b.StartDate = f.b.StartDate
			b.EndDate = f.b.StartDate.AddDate(0, 0, 5)
			b.Status = booking.StatusConfirmed
		})
		f.store.bookings[uuid.New()] = held.BuildSnapshot(uuid.New())

		_, err := f.request(t, uuid.New())
		require.ErrorIs(t, err, commands.ErrDateConflict)
	})

	t.Run("back-to-back booking is allowed", func(t *testing.T) {
		f := newBookingFixture(t)
		held := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.EquipmentID = f.b.EquipmentID
			b.StartDate = f.b.EndDate
			b.EndDate = f.b.EndDate.AddDate(0, 0, 5)
			b.Status = booking.StatusConfirmed
		})
		f.store.bookings[uuid.New()] = held.BuildSnapshot(uuid.New())

		_, err := f.request(t, uuid.New())
		require.NoError(t, err)
	})

	t.Run("cancelled bookings do not block", func(t *testing.T) {
		f := newBookingFixture(t)
		held := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
			b.EquipmentID = f.b.EquipmentID
			b.StartDate = f.b.StartDate
			b.EndDate = f.b.EndDate
			b.Status = booking.StatusCancelled
		})
		f.store.bookings[uuid.New()] = held.BuildSnapshot(uuid.New())

		_, err := f.request(t, uuid.New())
		require.NoError(t, err)
	})
}

func TestRequestBookingIdempotency(t *testing.T) {
	t.Run("same key replays the original booking", func(t *testing.T) {
		f := newBookingFixture(t)
		key := uuid.New()

		first, err := f.request(t, key)
		require.NoError(t, err)
		require.False(t, first.IsReplayed)

		second, err := f.request(t, key)
		require.NoError(t, err)
		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.Booking.ID, second.Booking.ID)

		assert.Len(t, f.store.bookings, 1, "replay must not create a second booking")
		assert.Len(t, f.store.jobs, 1, "replay must not enqueue a second event")
	})

	t.Run("key reuse with a different payload", func(t *testing.T) {
		f := newBookingFixture(t)
		key := uuid.New()

		_, err := f.request(t, key)
		require.NoError(t, err)

		f.b.EndDate = f.b.EndDate.AddDate(0, 0, 3)
		_, err = f.request(t, key)
		require.ErrorIs(t, err, commands.ErrDuplicateRequest)
	})

	t.Run("key still held by an unfinished request", func(t *testing.T) {
		f := newBookingFixture(t)
		key := uuid.New()

		// First attempt claims the key, then fails mid-workflow; the fake
		// store keeps the claim the way a crashed request would.
		equip := f.store.equipment[f.b.EquipmentID]
		delete(f.store.equipment, f.b.EquipmentID)
		_, err := f.request(t, key)
		require.ErrorIs(t, err, commands.ErrEquipmentNotFound)

		f.store.equipment[f.b.EquipmentID] = equip
		_, err = f.request(t, key)
		require.ErrorIs(t, err, commands.ErrIdempotencyInProgress)
	})

	t.Run("distinct keys create distinct bookings", func(t *testing.T) {
		f := newBookingFixture(t)

		_, err := f.request(t, uuid.New())
		require.NoError(t, err)

		f.b.StartDate = f.b.EndDate
		f.b.EndDate = f.b.StartDate.AddDate(0, 0, 4)
		_, err = f.request(t, uuid.New())
		require.NoError(t, err)

		assert.Len(t, f.store.bookings, 2)
	})
}

func TestBookingTransitions(t *testing.T) {
	owner := func(f *bookingFixture) booking.Actor { return booking.Actor{ID: f.b.OwnerID} }
	renter := func(f *bookingFixture) booking.Actor { return booking.Actor{ID: f.b.RenterID} }

	t.Run("owner confirms a pending booking", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.seedBooking(booking.StatusPending)

		err := f.cmds.Confirm(context.Background(), id, owner(f))
		require.NoError(t, err)

		assert.Equal(t, booking.StatusConfirmed.String(), f.store.bookings[id].Status)
		require.Len(t, f.store.jobs, 1)
		assert.Equal(t, "booking_confirmed", f.store.jobs[0].topic)
	})

	t.Run("renter cannot confirm", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.seedBooking(booking.StatusPending)

		err := f.cmds.Confirm(context.Background(), id, renter(f))
		require.ErrorIs(t, err, commands.ErrNotBookingParty)
		assert.Equal(t, booking.StatusPending.String(), f.store.bookings[id].Status)
	})

	t.Run("confirm on an unknown booking", func(t *testing.T) {
		f := newBookingFixture(t)
		err := f.cmds.Confirm(context.Background(), uuid.New(), owner(f))
		require.ErrorIs(t, err, commands.ErrBookingNotFound)
	})

	t.Run("confirm from a terminal status", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.seedBooking(booking.StatusCancelled)

		err := f.cmds.Confirm(context.Background(), id, owner(f))
		require.ErrorIs(t, err, commands.ErrInvalidTransition)
	})

	t.Run("renter cancels a confirmed booking", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.seedBooking(booking.StatusConfirmed)

		err := f.cmds.Cancel(context.Background(), id, renter(f))
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCancelled.String(), f.store.bookings[id].Status)
		require.Len(t, f.store.jobs, 1)
		assert.Equal(t, "booking_cancelled", f.store.jobs[0].topic)
	})

	t.Run("owner completes an ended booking without an event", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.seedBooking(booking.StatusConfirmed)
		f.clock.Set(f.b.EndDate.Add(6 * time.Hour))

		err := f.cmds.Complete(context.Background(), id, owner(f))
		require.NoError(t, err)

		assert.Equal(t, booking.StatusCompleted.String(), f.store.bookings[id].Status)
		assert.Empty(t, f.store.jobs, "completion is bookkeeping, not a notification")
	})

	t.Run("complete before the period ends", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.seedBooking(booking.StatusConfirmed)
		f.clock.Set(f.b.EndDate.AddDate(0, 0, -1))

		err := f.cmds.Complete(context.Background(), id, owner(f))
		require.ErrorIs(t, err, commands.ErrBookingNotEnded)
	})

	t.Run("system actor completes on behalf of the sweeper", func(t *testing.T) {
		f := newBookingFixture(t)
		id := f.seedBooking(booking.StatusConfirmed)
		f.clock.Set(f.b.EndDate.Add(time.Hour))

		err := f.cmds.Complete(context.Background(), id, booking.Actor{System: true})
		require.NoError(t, err)
		assert.Equal(t, booking.StatusCompleted.String(), f.store.bookings[id].Status)
	})
}
