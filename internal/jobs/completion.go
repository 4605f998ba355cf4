// Package jobs hosts scheduled maintenance work that runs inside the
// API process.
package jobs

import (
	"context"
	"log/slog"

	"heavyhub/internal/domain/booking"
	"heavyhub/internal/pkg/clock"
	"heavyhub/internal/usecase/commands"
	"heavyhub/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

const sweepBatchSize = 500

// CompletionSweeper promotes confirmed bookings whose period has ended
// to completed, once a day. Each booking moves in its own transaction
// through the regular lifecycle command, so a single bad row cannot
// wedge the sweep.
type CompletionSweeper struct {
	uow   shared.UnitOfWork
	cmds  commands.BookingCommands
	clock clock.Clock
	cron  *cron.Cron
}

func NewCompletionSweeper(uow shared.UnitOfWork, cmds commands.BookingCommands, clk clock.Clock) *CompletionSweeper {
	return &CompletionSweeper{
		uow:   uow,
		cmds:  cmds,
		clock: clk,
		cron:  cron.New(),
	}
}

func (s *CompletionSweeper) Start() error {
	_, err := s.cron.AddFunc("@daily", func() {
		if err := s.Sweep(context.Background()); err != nil {
			slog.Error("completion sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *CompletionSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep is one pass; exported so operators can trigger it out of band.
func (s *CompletionSweeper) Sweep(ctx context.Context) error {
	today := booking.TruncateToDay(s.clock.Now())

	var ids []uuid.UUID
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		ids, err = tx.Bookings().ListCompletable(ctx, today, sweepBatchSize)
		return err
	})
	if err != nil {
		return err
	}

	actor := booking.Actor{System: true}
	completed := 0
	for _, id := range ids {
		if err := s.cmds.Complete(ctx, id, actor); err != nil {
			// Lost races with a manual complete or cancel are expected.
			slog.Warn("completion sweep skipped booking", "booking_id", id, "error", err)
			continue
		}
		completed++
	}

	if len(ids) > 0 {
		slog.Info("completion sweep finished", "candidates", len(ids), "completed", completed)
	}
	return nil
}
