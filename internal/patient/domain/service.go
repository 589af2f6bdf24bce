package domain

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/clinicore/pkg/db/pagination"
)

type CreatePatientRequest struct {
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Email       string
	Phone       string
}

type UpdatePatientRequest struct {
	ID          string
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Email       *string
	Phone       *string
}

type GetPatientRequest struct {
	ID string
}

type DeletePatientRequest struct {
	ID string
}

type ListPatientRequest struct {
	pagination.Pagination
	Name string
}

type ListPatientResponse struct {
	pagination.PageInfo
	Patients []Patient `json:"patients"`
}

type Service interface {
	Create(context.Context, CreatePatientRequest) (Patient, error)
	Update(context.Context, UpdatePatientRequest) (Patient, error)
	Delete(context.Context, DeletePatientRequest) error
	GetByID(context.Context, GetPatientRequest) (Patient, error)
	List(context.Context, ListPatientRequest) (ListPatientResponse, error)
}

var (
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidID   = errors.New("invalid_id")
	ErrNotFound    = errors.New("not_found")
)
