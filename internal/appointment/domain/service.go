package domain

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/clinicore/pkg/db/pagination"
)

type CreateAppointmentRequest struct {
	PatientID   string
	ScheduledAt time.Time
	Notes       string
}

type UpdateAppointmentRequest struct {
	ID          string
	ScheduledAt *time.Time
	Status      *AppointmentStatus
	Notes       *string
}

type GetAppointmentRequest struct {
	ID string
}

type ListAppointmentRequest struct {
	pagination.Pagination
	PatientID string
	Status    string
}

type ListAppointmentResponse struct {
	pagination.PageInfo
	Appointments []Appointment `json:"appointments"`
}

type Service interface {
	Create(context.Context, CreateAppointmentRequest) (Appointment, error)
	Update(context.Context, UpdateAppointmentRequest) (Appointment, error)
	GetByID(context.Context, GetAppointmentRequest) (Appointment, error)
	List(context.Context, ListAppointmentRequest) (ListAppointmentResponse, error)
}

var (
	ErrInvalidPatient  = errors.New("invalid_patient")
	ErrInvalidSchedule = errors.New("invalid_schedule")
	ErrInvalidStatus   = errors.New("invalid_status")
	ErrInvalidID       = errors.New("invalid_id")
	ErrNotFound        = errors.New("not_found")
)
