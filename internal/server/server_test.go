package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	appointmentdomain "github.com/clinicore/clinicore/internal/appointment/domain"
	appointmentrepository "github.com/clinicore/clinicore/internal/appointment/repository"
	appointmentservice "github.com/clinicore/clinicore/internal/appointment/service"
	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
	auditrepository "github.com/clinicore/clinicore/internal/audit/repository"
	auditservice "github.com/clinicore/clinicore/internal/audit/service"
	"github.com/clinicore/clinicore/internal/config"
	customerdomain "github.com/clinicore/clinicore/internal/customer/domain"
	customerrepository "github.com/clinicore/clinicore/internal/customer/repository"
	customerservice "github.com/clinicore/clinicore/internal/customer/service"
	"github.com/clinicore/clinicore/internal/event/bus"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	eventstore "github.com/clinicore/clinicore/internal/event/store"
	invoicedomain "github.com/clinicore/clinicore/internal/invoice/domain"
	invoicerepository "github.com/clinicore/clinicore/internal/invoice/repository"
	invoiceservice "github.com/clinicore/clinicore/internal/invoice/service"
	patientdomain "github.com/clinicore/clinicore/internal/patient/domain"
	patientrepository "github.com/clinicore/clinicore/internal/patient/repository"
	patientservice "github.com/clinicore/clinicore/internal/patient/service"
	sequencedomain "github.com/clinicore/clinicore/internal/sequence/domain"
	sequencerepository "github.com/clinicore/clinicore/internal/sequence/repository"
	sequenceservice "github.com/clinicore/clinicore/internal/sequence/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&sequencedomain.Counter{},
		&eventdomain.StoredEvent{},
		&auditdomain.AuditTrail{},
		&patientdomain.Patient{},
		&customerdomain.Customer{},
		&appointmentdomain.Appointment{},
		&invoicedomain.Invoice{},
	))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	cfg := config.Config{AuditEnabled: true, HTTPAddr: ":0"}
	eventBus := bus.New(log)

	store := eventstore.New(eventstore.Params{DB: conn, Log: log, GenID: node})
	eventBus.Subscribe(store.Append)

	auditSvc := auditservice.New(auditservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Cfg:   cfg,
		Repo:  auditrepository.Provide(),
	})
	eventBus.Subscribe(auditSvc.Record)

	patientSvc := patientservice.New(patientservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  patientrepository.Provide(),
		Bus:   eventBus,
	})
	customerSvc := customerservice.New(customerservice.Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Repo:  customerrepository.Provide(),
		Bus:   eventBus,
	})
	appointmentSvc := appointmentservice.New(appointmentservice.Params{
		DB:         conn,
		Log:        log,
		GenID:      node,
		Repo:       appointmentrepository.Provide(),
		PatientSvc: patientSvc,
		Bus:        eventBus,
	})
	sequenceSvc := sequenceservice.New(sequenceservice.Params{
		DB:   conn,
		Log:  log,
		Repo: sequencerepository.Provide(),
	})
	invoiceSvc := invoiceservice.New(invoiceservice.Params{
		DB:          conn,
		Log:         log,
		GenID:       node,
		Repo:        invoicerepository.Provide(),
		SequenceSvc: sequenceSvc,
		CustomerSvc: customerSvc,
		Bus:         eventBus,
	})

	return NewServer(ServerParams{
		Gin:            NewEngine(),
		Cfg:            cfg,
		PatientSvc:     patientSvc,
		CustomerSvc:    customerSvc,
		AppointmentSvc: appointmentSvc,
		InvoiceSvc:     invoiceSvc,
		AuditSvc:       auditSvc,
	})
}

func (s *Server) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	data, _ := envelope["data"].(map[string]any)
	return data
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.doJSON(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIssueInvoiceOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.doJSON(t, http.MethodPost, "/v1/customers", gin.H{
		"name":  "Praxis Sonnenberg",
		"email": "billing@sonnenberg.example",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := decodeData(t, rec)["id"].(string)

	rec = s.doJSON(t, http.MethodPost, "/v1/invoices", gin.H{
		"customer_id":  customerID,
		"amount_cents": 12500,
		"currency":     "eur",
	}, map[string]string{HeaderActor: "dr.weber"})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := decodeData(t, rec)
	year := time.Now().UTC().Year()
	assert.Equal(t, fmt.Sprintf("%04d000001", year), data["number"])
	assert.Equal(t, "EUR", data["currency"])

	// The audit subscriber saw the actor header from the middleware.
	rec = s.doJSON(t, http.MethodGet, "/v1/audit-logs?entity_type=Invoice", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data []auditdomain.AuditTrail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, auditdomain.OperationCreated, envelope.Data[0].Operation)
	require.NotNil(t, envelope.Data[0].ChangedBy)
	assert.Equal(t, "dr.weber", *envelope.Data[0].ChangedBy)
}

func TestValidateInvoiceNumberOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.doJSON(t, http.MethodPost, "/v1/customers", gin.H{
		"name":  "Praxis Sonnenberg",
		"email": "billing@sonnenberg.example",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	customerID := decodeData(t, rec)["id"].(string)

	rec = s.doJSON(t, http.MethodPost, "/v1/invoices", gin.H{
		"customer_id":  customerID,
		"amount_cents": 5000,
		"currency":     "EUR",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	issuedNumber := decodeData(t, rec)["number"].(string)

	rec = s.doJSON(t, http.MethodPost, "/v1/invoices/validate-number", gin.H{
		"number": issuedNumber,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, false, data["is_valid"])
	assert.Equal(t, "invoice_number_duplicate", data["reason"])
}

func TestGapReportOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.doJSON(t, http.MethodGet, "/v1/invoices/gaps?year=2025", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, float64(2025), data["year"])
	assert.Equal(t, float64(0), data["total_invoices"])

	rec = s.doJSON(t, http.MethodGet, "/v1/invoices/gaps?year=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidationErrorShape(t *testing.T) {
	s := newTestServer(t)

	rec := s.doJSON(t, http.MethodPost, "/v1/patients", gin.H{
		"first_name": "",
		"last_name":  "",
	}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "validation_error", envelope.Error.Type)
}
