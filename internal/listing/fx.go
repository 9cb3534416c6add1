package listing

import (
	"github.com/Huve14/Go-Moto-sub000/internal/listing/repository"
	"github.com/Huve14/Go-Moto-sub000/internal/listing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("listing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
