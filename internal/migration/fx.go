package migration

import (
	appointmentdomain "github.com/clinicore/clinicore/internal/appointment/domain"
	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
	"github.com/clinicore/clinicore/internal/config"
	customerdomain "github.com/clinicore/clinicore/internal/customer/domain"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	invoicedomain "github.com/clinicore/clinicore/internal/invoice/domain"
	patientdomain "github.com/clinicore/clinicore/internal/patient/domain"
	sequencedomain "github.com/clinicore/clinicore/internal/sequence/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL migrations target postgres. Other drivers
		// (sqlite for local runs, mysql) get the schema from gorm.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&sequencedomain.Counter{},
				&eventdomain.StoredEvent{},
				&auditdomain.AuditTrail{},
				&patientdomain.Patient{},
				&customerdomain.Customer{},
				&appointmentdomain.Appointment{},
				&invoicedomain.Invoice{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
