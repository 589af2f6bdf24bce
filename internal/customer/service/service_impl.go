package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/clinicore/clinicore/internal/customer/domain"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
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
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		bus:   p.Bus,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	customer.Record(eventdomain.New(customer.ID.String(), "customer.created", customer.Snapshot()))

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}
	if err := s.bus.Publish(ctx, customer.PullEvents()...); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	before := customer.Snapshot()
	if req.Name != nil {
		customer.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		customer.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		customer.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}
	if customer.Name == "" {
		return domain.Customer{}, domain.ErrInvalidName
	}
	if customer.Email == "" || !strings.Contains(customer.Email, "@") {
		return domain.Customer{}, domain.ErrInvalidEmail
	}

	customer.Record(eventdomain.New(customer.ID.String(), "customer.updated", map[string]any{
		"old": before,
		"new": customer.Snapshot(),
	}))

	if err := s.repo.Update(ctx, s.db, customer); err != nil {
		return domain.Customer{}, err
	}
	if err := s.bus.Publish(ctx, customer.PullEvents()...); err != nil {
		return domain.Customer{}, err
	}

	return *customer, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetCustomerRequest) (domain.Customer, error) {
	customer, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}
	return *customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Name:  req.Name,
		Email: req.Email,
	}, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: customer.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Customer, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	customer, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return customer, nil
}
