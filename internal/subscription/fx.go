package subscription

import (
	"github.com/Huve14/Go-Moto-sub000/internal/subscription/repository"
	"github.com/Huve14/Go-Moto-sub000/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
