package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/clinicore/clinicore/internal/customer/domain"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"github.com/clinicore/clinicore/internal/invoice/domain"
	"github.com/clinicore/clinicore/internal/invoice/number"
	"github.com/clinicore/clinicore/internal/observability/metrics"
	sequencedomain "github.com/clinicore/clinicore/internal/sequence/domain"
	"github.com/clinicore/clinicore/pkg/db"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	SequenceSvc sequencedomain.Service
	CustomerSvc customerdomain.Service
	Bus         eventdomain.Bus
	Metrics     *metrics.Metrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	sequenceSvc sequencedomain.Service
	customerSvc customerdomain.Service
	bus         eventdomain.Bus
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoice.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		sequenceSvc: p.SequenceSvc,
		customerSvc: p.CustomerSvc,
		bus:         p.Bus,
		metrics:     p.Metrics,
	}
}

func counterName(year int) string {
	return fmt.Sprintf("invoices_%d", year)
}

func (s *Service) Issue(ctx context.Context, req domain.IssueInvoiceRequest) (domain.Invoice, error) {
	customer, err := s.customerSvc.GetByID(ctx, customerdomain.GetCustomerRequest{ID: req.CustomerID})
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidCustomer
	}

	if req.AmountCents <= 0 {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != 3 {
		return domain.Invoice{}, domain.ErrInvalidCurrency
	}

	var patientID *snowflake.ID
	if raw := strings.TrimSpace(req.PatientID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.Invoice{}, domain.ErrInvalidID
		}
		patientID = &parsed
	}

	// The number is allocated synchronously, before the row is written.
	// The counter's atomic increment is the only cross-request mutual
	// exclusion in the issuing path.
	now := time.Now().UTC()
	year := now.Year()
	issuedNumber, err := s.sequenceSvc.IncrementAndGetNext(ctx, counterName(year), number.Format(year, 1))
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("allocate invoice number: %w", err)
	}

	invoice := domain.Invoice{
		ID:          s.genID.Generate(),
		Number:      issuedNumber,
		CustomerID:  customer.ID,
		PatientID:   patientID,
		Status:      domain.StatusIssued,
		AmountCents: req.AmountCents,
		Currency:    currency,
		IssuedAt:    now,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	invoice.Record(eventdomain.New(invoice.ID.String(), "invoice.created", invoice.Snapshot()))

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Should be unreachable with an atomic counter; the unique
			// index caught a double allocation.
			s.log.Error("issued number collided", zap.String("number", issuedNumber))
			return domain.Invoice{}, sequencedomain.ErrConcurrencyViolation
		}
		return domain.Invoice{}, err
	}
	if err := s.bus.Publish(ctx, invoice.PullEvents()...); err != nil {
		return domain.Invoice{}, err
	}

	s.metrics.RecordInvoiceIssued(ctx, year)
	return invoice, nil
}

func (s *Service) UpdateNumber(ctx context.Context, req domain.UpdateNumberRequest) (domain.Invoice, error) {
	invoice, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	candidate := strings.TrimSpace(req.Number)
	verdict, err := s.validate(ctx, candidate, invoice.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if !verdict.Valid {
		return domain.Invoice{}, verdictError(verdict)
	}

	oldNumber := invoice.Number
	invoice.Number = candidate
	invoice.Record(eventdomain.New(invoice.ID.String(), "invoice.updated", map[string]any{
		"old": map[string]any{"number": oldNumber},
		"new": map[string]any{"number": candidate},
	}))

	now := time.Now().UTC()
	if err := s.repo.UpdateNumber(ctx, s.db, invoice.ID, candidate, now); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Another writer took the slot between validation and the
			// write; the unique index is the final arbiter.
			return domain.Invoice{}, domain.ErrNumberDuplicate
		}
		return domain.Invoice{}, err
	}
	invoice.UpdatedAt = now

	if err := s.bus.Publish(ctx, invoice.PullEvents()...); err != nil {
		return domain.Invoice{}, err
	}

	return *invoice, nil
}

func (s *Service) ValidateNumber(ctx context.Context, req domain.ValidateNumberRequest) (number.Verdict, error) {
	var excludeID snowflake.ID
	if raw := strings.TrimSpace(req.ExcludeID); raw != "" {
		parsed, err := snowflake.ParseString(raw)
		if err != nil {
			return number.Verdict{}, domain.ErrInvalidID
		}
		excludeID = parsed
	}
	return s.validate(ctx, strings.TrimSpace(req.Number), excludeID)
}

func (s *Service) GapReport(ctx context.Context, year int) (number.GapReport, error) {
	numbers, err := s.repo.ListNumbersByYear(ctx, s.db, year)
	if err != nil {
		return number.GapReport{}, err
	}
	return number.FindGaps(year, numbers), nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	filter := domain.ListFilter{Status: req.Status}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidCustomer
		}
		filter.CustomerID = id
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
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: invoice.ID.String()})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

// validate runs the pure validator against the issued-number population
// for the candidate's year, excluding the document being edited.
func (s *Service) validate(ctx context.Context, candidate string, excludeID snowflake.ID) (number.Verdict, error) {
	year, _, ok := number.Parse(candidate)
	if !ok {
		return number.Verdict{Valid: false, Reason: number.ReasonInvalidFormat}, nil
	}

	existing, err := s.repo.ListNumbersByYear(ctx, s.db, year)
	if err != nil {
		return number.Verdict{}, err
	}

	if excludeID != 0 {
		current, err := s.repo.FindByID(ctx, s.db, excludeID)
		if err != nil {
			return number.Verdict{}, err
		}
		if current != nil {
			filtered := existing[:0]
			for _, n := range existing {
				if n != current.Number {
					filtered = append(filtered, n)
				}
			}
			existing = filtered
		}
	}

	return number.Validate(candidate, existing), nil
}

func verdictError(verdict number.Verdict) error {
	switch verdict.Reason {
	case number.ReasonDuplicate:
		return domain.ErrNumberDuplicate
	case number.ReasonTooHigh:
		return domain.ErrNumberTooHigh
	default:
		return domain.ErrNumberInvalid
	}
}

func (s *Service) find(ctx context.Context, rawID string) (*domain.Invoice, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return nil, domain.ErrInvalidID
	}

	invoice, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}
