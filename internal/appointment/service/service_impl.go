package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/appointment/domain"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	patientdomain "github.com/clinicore/clinicore/internal/patient/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	PatientSvc patientdomain.Service
	Bus        eventdomain.Bus
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	patientSvc patientdomain.Service
	bus        eventdomain.Bus
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("appointment.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		patientSvc: p.PatientSvc,
		bus:        p.Bus,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateAppointmentRequest) (domain.Appointment, error) {
	patient, err := s.patientSvc.GetByID(ctx, patientdomain.GetPatientRequest{ID: req.PatientID})
	if err != nil {
		return domain.Appointment{}, domain.ErrInvalidPatient
	}

	if req.ScheduledAt.IsZero() {
		return domain.Appointment{}, domain.ErrInvalidSchedule
	}

	now := time.Now().UTC()
	appointment := domain.Appointment{
		ID:          s.genID.Generate(),
		PatientID:   patient.ID,
		ScheduledAt: req.ScheduledAt.UTC(),
		Status:      domain.StatusScheduled,
		Notes:       strings.TrimSpace(req.Notes),
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	appointment.Record(eventdomain.New(appointment.ID.String(), "appointment.created", appointment.Snapshot()))

	if err := s.repo.Insert(ctx, s.db, &appointment); err != nil {
		return domain.Appointment{}, err
	}
	if err := s.bus.Publish(ctx, appointment.PullEvents()...); err != nil {
		return domain.Appointment{}, err
	}

	return appointment, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateAppointmentRequest) (domain.Appointment, error) {
	appointment, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Appointment{}, err
	}

	before := appointment.Snapshot()
	if req.ScheduledAt != nil {
		if req.ScheduledAt.IsZero() {
			return domain.Appointment{}, domain.ErrInvalidSchedule
		}
		appointment.ScheduledAt = req.ScheduledAt.UTC()
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.StatusScheduled, domain.StatusCompleted, domain.StatusCancelled:
			appointment.Status = *req.Status
		default:
			return domain.Appointment{}, domain.ErrInvalidStatus
		}
	}
	if req.Notes != nil {
		appointment.Notes = strings.TrimSpace(*req.Notes)
	}

	appointment.Record(eventdomain.New(appointment.ID.String(), "appointment.updated", map[string]any{
		"old": before,
		"new": appointment.Snapshot(),
	}))

	if err := s.repo.Update(ctx, s.db, appointment); err != nil {
		return domain.Appointment{}, err
	}
	if err := s.bus.Publish(ctx, appointment.PullEvents()...); err != nil {
		return domain.Appointment{}, err
	}

	return *appointment, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetAppointmentRequest) (domain.Appointment, error) {
	appointment, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Appointment{}, err
	}
	return *appointment, nil
}

func (s *Service) List(ctx context.Context, req domain.ListAppointmentRequest) (domain.ListAppointmentResponse, error) {
	filter := domain.ListFilter{Status: req.Status}
	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListAppointmentResponse{}, domain.ErrInvalidPatient
		}
		filter.PatientID = id
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListAppointmentResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(appointment *domain.Appointment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: appointment.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	appointments := make([]domain.Appointment, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		appointments = append(appointments, *item)
	}

	resp := domain.ListAppointmentResponse{Appointments: appointments}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Appointment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	appointment, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, domain.ErrNotFound
	}
	return appointment, nil
}
