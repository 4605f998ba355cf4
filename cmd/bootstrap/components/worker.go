package components

import (
	"context"

	"heavyhub/internal/jobs"
	"heavyhub/internal/notifier"
	"heavyhub/internal/pkg/clock"
	"heavyhub/internal/pkg/config"
	"heavyhub/internal/usecase/shared"

	"go.uber.org/fx"
)

// WorkerModule hosts the in-process background workers: the daily
// completion sweep and the notification outbox relay.
var WorkerModule = fx.Module("worker",
	fx.Provide(
		jobs.NewCompletionSweeper,
		NewNotificationRelay,
	),
	fx.Invoke(
		registerSweeper,
		registerRelay,
	),
)

func NewNotificationRelay(u shared.UnitOfWork, cfg config.Config, clk clock.Clock) *notifier.Relay {
	return notifier.NewRelay(u, cfg.Kafka, clk)
}

func registerSweeper(lc fx.Lifecycle, sweeper *jobs.CompletionSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}

func registerRelay(lc fx.Lifecycle, relay *notifier.Relay) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			relay.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			return relay.Stop()
		},
	})
}
