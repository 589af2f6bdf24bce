package patient

import (
	"github.com/clinicore/clinicore/internal/patient/repository"
	"github.com/clinicore/clinicore/internal/patient/service"
	"go.uber.org/fx"
)

var Module = fx.Module("patient.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
