package components

import (
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"
	"studio-booking/internal/usecase"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
	fx.Invoke(wireSeatFreedHook),
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) commands.BookingPolicy {
		return commands.BookingPolicy{
			CancellationCutoff: cfg.Booking.CancellationCutoff,
			MinAttendance:      cfg.Booking.MinAttendance,
		}
	},
	func(cfg config.Config) commands.PromotionPolicy {
		return commands.PromotionPolicy{
			MaxAttempts:   cfg.Booking.PromotionMaxAttempts,
			MaxCandidates: cfg.Booking.PromotionCandidates,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
		commands.NewWaitlistCommands,
		commands.NewCreditCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
		queries.NewSessionQueries,
		queries.NewCreditQueries,
		queries.NewWaitlistQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

// wireSeatFreedHook closes the cancel-to-promotion loop after both use cases
// exist, avoiding a constructor cycle between them.
func wireSeatFreedHook(b commands.BookingCommands, w commands.WaitlistCommands) {
	b.RegisterSeatFreedHandler(commands.SeatFreedFunc(w.PromoteNext))
}
