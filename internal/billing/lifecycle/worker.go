package lifecycle

import (
	"context"
	"time"

	"github.com/Huve14/Go-Moto-sub000/internal/clock"
	"go.uber.org/zap"
)

// Worker runs the lifecycle on an interval for deployments without an
// external scheduler. Production setups normally hit the cron endpoint
// instead.
type Worker struct {
	runner   *Runner
	clk      clock.Clock
	log      *zap.Logger
	interval time.Duration
}

func NewWorker(runner *Runner, clk clock.Clock, log *zap.Logger, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &Worker{
		runner:   runner,
		clk:      clk,
		log:      log.Named("billing.worker"),
		interval: interval,
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		summary, err := w.runner.Run(ctx, w.clk.Now())
		if err != nil {
			w.log.Error("scheduled billing run failed", zap.Error(err))
			continue
		}
		if len(summary.Errors) > 0 {
			w.log.Warn("scheduled billing run finished with errors",
				zap.Int("errors", len(summary.Errors)),
			)
		}
	}
}
