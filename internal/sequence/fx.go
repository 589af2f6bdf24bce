package sequence

import (
	"github.com/clinicore/clinicore/internal/sequence/repository"
	"github.com/clinicore/clinicore/internal/sequence/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sequence.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
