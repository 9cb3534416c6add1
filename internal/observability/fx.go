package observability

import (
	"github.com/Huve14/Go-Moto-sub000/internal/config"
	"github.com/Huve14/Go-Moto-sub000/internal/observability/logger"
	"github.com/Huve14/Go-Moto-sub000/internal/observability/tracing"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
}

var Module = fx.Module("observability",
	logger.Module,
	fx.Invoke(func(lc fx.Lifecycle, cfg Params) error {
		_, err := tracing.NewProvider(lc, cfg.Config, cfg.Log)
		return err
	}),
)
