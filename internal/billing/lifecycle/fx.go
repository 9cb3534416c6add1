package lifecycle

import (
	"context"

	"github.com/Huve14/Go-Moto-sub000/internal/clock"
	"github.com/Huve14/Go-Moto-sub000/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("billing.lifecycle",
	fx.Provide(NewRunner),
	fx.Invoke(startWorker),
)

func startWorker(lc fx.Lifecycle, cfg config.Config, runner *Runner, clk clock.Clock, log *zap.Logger) {
	if !cfg.Worker.Enabled {
		return
	}
	worker := NewWorker(runner, clk, log, cfg.Worker.Interval)
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}
