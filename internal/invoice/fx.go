package invoice

import (
	"github.com/clinicore/clinicore/internal/invoice/repository"
	"github.com/clinicore/clinicore/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
