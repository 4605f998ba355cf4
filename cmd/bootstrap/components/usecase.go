package components

import (
	"heavyhub/internal/pkg/clock"
	"heavyhub/internal/pkg/config"
	"heavyhub/internal/usecase/commands"
	"heavyhub/internal/usecase/queries"
	"heavyhub/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		queries.NewBookingQueries,
		queries.NewEquipmentQueries,
		NewBookingCommands,
		commands.NewEquipmentUseCase,
	),
)

func NewBookingCommands(
	u shared.UnitOfWork,
	q queries.BookingQueries,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingUseCase(u, q, clk, cfg.Booking.HorizonDays)
}
