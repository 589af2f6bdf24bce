package domain

import (
	"context"
	"errors"

	"github.com/clinicore/clinicore/internal/invoice/number"
	"github.com/clinicore/clinicore/pkg/db/pagination"
)

type IssueInvoiceRequest struct {
	CustomerID  string
	PatientID   string
	AmountCents int64
	Currency    string
}

type UpdateNumberRequest struct {
	ID     string
	Number string
}

type ValidateNumberRequest struct {
	// Number is the externally supplied candidate.
	Number string
	// ExcludeID omits the document being edited from the existing set.
	ExcludeID string
}

type GetInvoiceRequest struct {
	ID string
}

type ListInvoiceRequest struct {
	pagination.Pagination
	CustomerID string
	Status     string
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type Service interface {
	// Issue allocates the next sequence number for the current year and
	// persists the invoice. The allocation happens synchronously,
	// before the row is written.
	Issue(context.Context, IssueInvoiceRequest) (Invoice, error)
	// UpdateNumber assigns an externally supplied number after
	// validating it against every number issued for its year.
	UpdateNumber(context.Context, UpdateNumberRequest) (Invoice, error)
	// ValidateNumber runs the validation without side effects.
	ValidateNumber(context.Context, ValidateNumberRequest) (number.Verdict, error)
	// GapReport lists the never-issued sequence positions for a year.
	GapReport(ctx context.Context, year int) (number.GapReport, error)
	GetByID(context.Context, GetInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
}

var (
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")

	// Number validation failures, matching the validator reason codes.
	ErrNumberInvalid   = errors.New(number.ReasonInvalidFormat)
	ErrNumberDuplicate = errors.New(number.ReasonDuplicate)
	ErrNumberTooHigh   = errors.New(number.ReasonTooHigh)
)
