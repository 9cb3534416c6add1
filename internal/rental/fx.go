package rental

import (
	"github.com/Huve14/Go-Moto-sub000/internal/rental/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rental.service",
	fx.Provide(service.NewService),
)
