package appointment

import (
	"github.com/clinicore/clinicore/internal/appointment/repository"
	"github.com/clinicore/clinicore/internal/appointment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("appointment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
