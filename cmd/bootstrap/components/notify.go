package components

import (
	"context"

	"studio-booking/internal/notify"
	"studio-booking/internal/pkg/clock"
	"studio-booking/internal/pkg/config"

	"studio-booking/internal/infra/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		fx.Annotate(
			notify.NewLogSender,
			fx.As(new(notify.Sender)),
		),
		func(pool *pgxpool.Pool, jobs *repository.NotificationRepository, sender notify.Sender, cfg config.Config, clk clock.Clock) *notify.Worker {
			return notify.NewWorker(pool, jobs, sender, cfg.Notify, clk)
		},
	),
	fx.Invoke(startWorker),
)

func startWorker(lc fx.Lifecycle, worker *notify.Worker) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go worker.Run(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
