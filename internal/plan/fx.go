package plan

import (
	"github.com/Huve14/Go-Moto-sub000/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(service.NewService),
)
