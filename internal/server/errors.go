package server

import (
	"errors"
	"net/http"
	"strings"

	appointmentdomain "github.com/clinicore/clinicore/internal/appointment/domain"
	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
	customerdomain "github.com/clinicore/clinicore/internal/customer/domain"
	invoicedomain "github.com/clinicore/clinicore/internal/invoice/domain"
	patientdomain "github.com/clinicore/clinicore/internal/patient/domain"
	sequencedomain "github.com/clinicore/clinicore/internal/sequence/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isPatientValidationError(err),
		isCustomerValidationError(err),
		isAppointmentValidationError(err),
		isInvoiceValidationError(err),
		isAuditValidationError(err),
		isSequenceValidationError(err):
		return true
	default:
		return false
	}
}

func isPatientValidationError(err error) bool {
	return errors.Is(err, patientdomain.ErrInvalidName) ||
		errors.Is(err, patientdomain.ErrInvalidID)
}

func isCustomerValidationError(err error) bool {
	return errors.Is(err, customerdomain.ErrInvalidName) ||
		errors.Is(err, customerdomain.ErrInvalidEmail) ||
		errors.Is(err, customerdomain.ErrInvalidID)
}

func isAppointmentValidationError(err error) bool {
	return errors.Is(err, appointmentdomain.ErrInvalidPatient) ||
		errors.Is(err, appointmentdomain.ErrInvalidSchedule) ||
		errors.Is(err, appointmentdomain.ErrInvalidStatus) ||
		errors.Is(err, appointmentdomain.ErrInvalidID)
}

func isInvoiceValidationError(err error) bool {
	return errors.Is(err, invoicedomain.ErrInvalidCustomer) ||
		errors.Is(err, invoicedomain.ErrInvalidAmount) ||
		errors.Is(err, invoicedomain.ErrInvalidCurrency) ||
		errors.Is(err, invoicedomain.ErrInvalidID) ||
		errors.Is(err, invoicedomain.ErrNumberInvalid) ||
		errors.Is(err, invoicedomain.ErrNumberTooHigh)
}

func isAuditValidationError(err error) bool {
	return errors.Is(err, auditdomain.ErrInvalidPageToken) ||
		errors.Is(err, auditdomain.ErrInvalidTimeRange)
}

func isSequenceValidationError(err error) bool {
	return errors.Is(err, sequencedomain.ErrInvalidCounterName) ||
		errors.Is(err, sequencedomain.ErrInvalidSeedValue)
}

func isConflictError(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, invoicedomain.ErrNumberDuplicate) ||
		errors.Is(err, sequencedomain.ErrConcurrencyViolation) ||
		errors.Is(err, gorm.ErrDuplicatedKey)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, patientdomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, appointmentdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == "invalid_request" {
		return "request"
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
