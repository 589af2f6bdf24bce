package customer

import (
	"github.com/clinicore/clinicore/internal/customer/repository"
	"github.com/clinicore/clinicore/internal/customer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
