package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		eventName  string
		entityType string
		operation  string
	}{
		{"patient.created", EntityPatient, OperationCreated},
		{"patient.updated", EntityPatient, OperationUpdated},
		{"customer.deleted", EntityCustomer, OperationDeleted},
		{"appointment.created", EntityAppointment, OperationCreated},
		{"record.updated", EntityRecord, OperationUpdated},
		{"invoice.created", EntityInvoice, OperationCreated},
		{"invoice.finalized", EntityInvoice, "finalized"},
		{"ledger.posted", EntityUnknown, "posted"},
		{"noverb", EntityUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.eventName, func(t *testing.T) {
			entityType, operation := Classify(tt.eventName)
			assert.Equal(t, tt.entityType, entityType)
			assert.Equal(t, tt.operation, operation)
		})
	}
}

func TestHasFieldChanged(t *testing.T) {
	entry := AuditTrail{Changes: map[string]any{
		"first_name": map[string]any{"old": "Ada", "new": "Grace"},
	}}

	assert.True(t, entry.HasFieldChanged("first_name"))
	assert.False(t, entry.HasFieldChanged("last_name"))
}
