package server

import (
	"net/http"
	"strings"
	"time"

	appointmentdomain "github.com/clinicore/clinicore/internal/appointment/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createAppointmentRequest struct {
	PatientID   string `json:"patient_id"`
	ScheduledAt string `json:"scheduled_at"`
	Notes       string `json:"notes"`
}

type updateAppointmentRequest struct {
	ScheduledAt *string `json:"scheduled_at"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

func (s *Server) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.ScheduledAt))
	if err != nil {
		AbortWithError(c, newValidationError("scheduled_at", "invalid_schedule", "invalid scheduled_at"))
		return
	}

	appointment, err := s.appointmentSvc.Create(c.Request.Context(), appointmentdomain.CreateAppointmentRequest{
		PatientID:   req.PatientID,
		ScheduledAt: scheduledAt,
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": appointment})
}

func (s *Server) UpdateAppointment(c *gin.Context) {
	var req updateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != nil {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.ScheduledAt))
		if err != nil {
			AbortWithError(c, newValidationError("scheduled_at", "invalid_schedule", "invalid scheduled_at"))
			return
		}
		scheduledAt = &parsed
	}

	var status *appointmentdomain.AppointmentStatus
	if req.Status != nil {
		parsed := appointmentdomain.AppointmentStatus(strings.TrimSpace(*req.Status))
		status = &parsed
	}

	appointment, err := s.appointmentSvc.Update(c.Request.Context(), appointmentdomain.UpdateAppointmentRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		ScheduledAt: scheduledAt,
		Status:      status,
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appointment})
}

func (s *Server) GetAppointmentByID(c *gin.Context) {
	appointment, err := s.appointmentSvc.GetByID(c.Request.Context(), appointmentdomain.GetAppointmentRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": appointment})
}

func (s *Server) ListAppointments(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.appointmentSvc.List(c.Request.Context(), appointmentdomain.ListAppointmentRequest{
		Pagination: page,
		PatientID:  strings.TrimSpace(c.Query("patient_id")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Appointments, "page_info": resp.PageInfo})
}
