package seller

import (
	"github.com/Huve14/Go-Moto-sub000/internal/seller/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("seller",
	fx.Provide(repository.Provide),
)
