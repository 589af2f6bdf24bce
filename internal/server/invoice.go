package server

import (
	"net/http"
	"strconv"
	"strings"

	invoicedomain "github.com/clinicore/clinicore/internal/invoice/domain"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type issueInvoiceRequest struct {
	CustomerID  string `json:"customer_id"`
	PatientID   string `json:"patient_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type updateInvoiceNumberRequest struct {
	Number string `json:"number"`
}

type validateInvoiceNumberRequest struct {
	Number    string `json:"number"`
	ExcludeID string `json:"exclude_id"`
}

func (s *Server) IssueInvoice(c *gin.Context) {
	var req issueInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoiceSvc.Issue(c.Request.Context(), invoicedomain.IssueInvoiceRequest{
		CustomerID:  req.CustomerID,
		PatientID:   req.PatientID,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": invoice})
}

func (s *Server) UpdateInvoiceNumber(c *gin.Context) {
	var req updateInvoiceNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invoice, err := s.invoiceSvc.UpdateNumber(c.Request.Context(), invoicedomain.UpdateNumberRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Number: req.Number,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) ValidateInvoiceNumber(c *gin.Context) {
	var req validateInvoiceNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	verdict, err := s.invoiceSvc.ValidateNumber(c.Request.Context(), invoicedomain.ValidateNumberRequest{
		Number:    req.Number,
		ExcludeID: req.ExcludeID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": verdict})
}

func (s *Server) GetInvoiceGapReport(c *gin.Context) {
	year, err := strconv.Atoi(strings.TrimSpace(c.Query("year")))
	if err != nil || year < 1000 || year > 9999 {
		AbortWithError(c, newValidationError("year", "invalid_year", "invalid year"))
		return
	}

	report, err := s.invoiceSvc.GapReport(c.Request.Context(), year)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	invoice, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.GetInvoiceRequest{
		ID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Pagination: page,
		CustomerID: strings.TrimSpace(c.Query("customer_id")),
		Status:     strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Invoices, "page_info": resp.PageInfo})
}
