package server

import (
	"net/http"
	"strings"
	"time"

	patientdomain "github.com/clinicore/clinicore/internal/patient/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createPatientRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

type updatePatientRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
}

func (s *Server) CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	dateOfBirth, err := parseOptionalDate(req.DateOfBirth)
	if err != nil {
		AbortWithError(c, newValidationError("date_of_birth", "invalid_date_of_birth", "invalid date_of_birth"))
		return
	}

	patient, err := s.patientSvc.Create(c.Request.Context(), patientdomain.CreatePatientRequest{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dateOfBirth,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": patient})
}

func (s *Server) UpdatePatient(c *gin.Context) {
	var req updatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var dateOfBirth *time.Time
	if req.DateOfBirth != nil {
		parsed, err := parseOptionalDate(*req.DateOfBirth)
		if err != nil {
			AbortWithError(c, newValidationError("date_of_birth", "invalid_date_of_birth", "invalid date_of_birth"))
			return
		}
		dateOfBirth = parsed
	}

	patient, err := s.patientSvc.Update(c.Request.Context(), patientdomain.UpdatePatientRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dateOfBirth,
		Email:       req.Email,
		Phone:       req.Phone,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": patient})
}

func (s *Server) DeletePatient(c *gin.Context) {
	err := s.patientSvc.Delete(c.Request.Context(), patientdomain.DeletePatientRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) GetPatientByID(c *gin.Context) {
	patient, err := s.patientSvc.GetByID(c.Request.Context(), patientdomain.GetPatientRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": patient})
}

func (s *Server) ListPatients(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.patientSvc.List(c.Request.Context(), patientdomain.ListPatientRequest{
		Pagination: page,
		Name:       strings.TrimSpace(c.Query("name")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Patients, "page_info": resp.PageInfo})
}
