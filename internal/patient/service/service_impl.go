package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"github.com/clinicore/clinicore/internal/patient/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Bus   eventdomain.Bus
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	bus   eventdomain.Bus
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("patient.service"),
		genID: p.GenID,
		repo:  p.Repo,
		bus:   p.Bus,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreatePatientRequest) (domain.Patient, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Patient{}, domain.ErrInvalidName
	}

	now := time.Now().UTC()
	patient := domain.Patient{
		ID:          s.genID.Generate(),
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: req.DateOfBirth,
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	patient.Record(eventdomain.New(patient.ID.String(), "patient.created", patient.Snapshot()))

	if err := s.repo.Insert(ctx, s.db, &patient); err != nil {
		return domain.Patient{}, err
	}
	if err := s.publish(ctx, &patient); err != nil {
		return domain.Patient{}, err
	}

	return patient, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdatePatientRequest) (domain.Patient, error) {
	patient, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Patient{}, err
	}

	before := patient.Snapshot()
	if req.FirstName != nil {
		patient.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		patient.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Email != nil {
		patient.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		patient.Phone = strings.TrimSpace(*req.Phone)
	}
	if patient.FirstName == "" || patient.LastName == "" {
		return domain.Patient{}, domain.ErrInvalidName
	}

	patient.Record(eventdomain.New(patient.ID.String(), "patient.updated", map[string]any{
		"old": before,
		"new": patient.Snapshot(),
	}))

	if err := s.repo.Update(ctx, s.db, patient); err != nil {
		return domain.Patient{}, err
	}
	if err := s.publish(ctx, patient); err != nil {
		return domain.Patient{}, err
	}

	return *patient, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeletePatientRequest) error {
	patient, err := s.find(ctx, req.ID)
	if err != nil {
		return err
	}

	patient.Record(eventdomain.New(patient.ID.String(), "patient.deleted", patient.Snapshot()))

	if err := s.repo.Delete(ctx, s.db, patient.ID); err != nil {
		return err
	}
	return s.publish(ctx, patient)
}

func (s *Service) GetByID(ctx context.Context, req domain.GetPatientRequest) (domain.Patient, error) {
	patient, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Patient{}, err
	}
	return *patient, nil
}

func (s *Service) List(ctx context.Context, req domain.ListPatientRequest) (domain.ListPatientResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, req.Name, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListPatientResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(patient *domain.Patient) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: patient.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	patients := make([]domain.Patient, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		patients = append(patients, *item)
	}

	resp := domain.ListPatientResponse{Patients: patients}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Patient, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	patient, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, domain.ErrNotFound
	}
	return patient, nil
}

// publish drains the aggregate's pending events and delivers them in
// recorded order. A store-append failure propagates to the caller.
func (s *Service) publish(ctx context.Context, patient *domain.Patient) error {
	return s.bus.Publish(ctx, patient.PullEvents()...)
}
