package server

import (
	"context"
	"net/http"
	"time"

	"github.com/clinicore/clinicore/internal/appointment"
	appointmentdomain "github.com/clinicore/clinicore/internal/appointment/domain"
	"github.com/clinicore/clinicore/internal/audit"
	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/customer"
	customerdomain "github.com/clinicore/clinicore/internal/customer/domain"
	"github.com/clinicore/clinicore/internal/event"
	"github.com/clinicore/clinicore/internal/invoice"
	invoicedomain "github.com/clinicore/clinicore/internal/invoice/domain"
	"github.com/clinicore/clinicore/internal/observability"
	"github.com/clinicore/clinicore/internal/patient"
	patientdomain "github.com/clinicore/clinicore/internal/patient/domain"
	"github.com/clinicore/clinicore/internal/sequence"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	observability.Module,
	fx.Provide(registerGin),
	event.Module,
	audit.Module,
	sequence.Module,
	patient.Module,
	customer.Module,
	appointment.Module,
	invoice.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestContext())
	r.Use(TracingMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine         *gin.Engine
	cfg            config.Config
	patientSvc     patientdomain.Service
	customerSvc    customerdomain.Service
	appointmentSvc appointmentdomain.Service
	invoiceSvc     invoicedomain.Service
	auditSvc       auditdomain.Service
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	PatientSvc     patientdomain.Service
	CustomerSvc    customerdomain.Service
	AppointmentSvc appointmentdomain.Service
	InvoiceSvc     invoicedomain.Service
	AuditSvc       auditdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		patientSvc:     p.PatientSvc,
		customerSvc:    p.CustomerSvc,
		appointmentSvc: p.AppointmentSvc,
		invoiceSvc:     p.InvoiceSvc,
		auditSvc:       p.AuditSvc,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/v1")

	// -------- Patients --------
	api.GET("/patients", s.ListPatients)
	api.POST("/patients", s.CreatePatient)
	api.GET("/patients/:id", s.GetPatientByID)
	api.PATCH("/patients/:id", s.UpdatePatient)
	api.DELETE("/patients/:id", s.DeletePatient)

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)

	// -------- Appointments --------
	api.GET("/appointments", s.ListAppointments)
	api.POST("/appointments", s.CreateAppointment)
	api.GET("/appointments/:id", s.GetAppointmentByID)
	api.PATCH("/appointments/:id", s.UpdateAppointment)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.IssueInvoice)
	api.GET("/invoices/gaps", s.GetInvoiceGapReport)
	api.POST("/invoices/validate-number", s.ValidateInvoiceNumber)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PUT("/invoices/:id/number", s.UpdateInvoiceNumber)

	// -------- Audit --------
	api.GET("/audit-logs", s.ListAuditLogs)
}
