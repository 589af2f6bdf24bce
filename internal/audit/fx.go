package audit

import (
	"github.com/clinicore/clinicore/internal/audit/domain"
	"github.com/clinicore/clinicore/internal/audit/repository"
	"github.com/clinicore/clinicore/internal/audit/service"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Invoke(subscribe),
)

// subscribe consumes every published event. Record swallows its own
// failures, so audit problems never abort the publishing operation.
func subscribe(bus eventdomain.Bus, svc domain.Service) {
	bus.Subscribe(svc.Record)
}
