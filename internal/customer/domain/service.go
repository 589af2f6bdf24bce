package domain

import (
	"context"
	"errors"

	"github.com/clinicore/clinicore/pkg/db/pagination"
)

type CreateCustomerRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type UpdateCustomerRequest struct {
	ID      string
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type GetCustomerRequest struct {
	ID string
}

type ListCustomerRequest struct {
	pagination.Pagination
	Name  string
	Email string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	GetByID(context.Context, GetCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidID    = errors.New("invalid_id")
	ErrNotFound     = errors.New("not_found")
)
