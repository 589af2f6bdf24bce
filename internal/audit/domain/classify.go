package domain

import "strings"

// Entity types recognized by the audit trail. Events outside the
// registered table land in EntityUnknown rather than failing.
const (
	EntityPatient     = "Patient"
	EntityCustomer    = "Customer"
	EntityAppointment = "Appointment"
	EntityRecord      = "Record"
	EntityInvoice     = "Invoice"
	EntityUnknown     = "Unknown"
)

const (
	OperationCreated = "created"
	OperationUpdated = "updated"
	OperationDeleted = "deleted"
)

// entityByPrefix is a closed mapping from the event-name namespace to
// the audited entity type. Substring sniffing on type names
// misclassifies new event kinds silently; an explicit table does not.
var entityByPrefix = map[string]string{
	"patient":     EntityPatient,
	"customer":    EntityCustomer,
	"appointment": EntityAppointment,
	"record":      EntityRecord,
	"invoice":     EntityInvoice,
}

var operationByVerb = map[string]string{
	"created": OperationCreated,
	"updated": OperationUpdated,
	"deleted": OperationDeleted,
}

// Classify resolves the entity type and operation from an event name of
// the form "<namespace>.<verb>". Unregistered namespaces map to
// EntityUnknown; unrecognized verbs pass through verbatim as the
// operation label.
func Classify(eventName string) (entityType, operation string) {
	namespace := eventName
	verb := ""
	if idx := strings.LastIndex(eventName, "."); idx >= 0 {
		namespace = eventName[:idx]
		verb = eventName[idx+1:]
	}

	entityType, ok := entityByPrefix[strings.ToLower(strings.TrimSpace(namespace))]
	if !ok {
		entityType = EntityUnknown
	}

	operation, ok = operationByVerb[strings.ToLower(strings.TrimSpace(verb))]
	if !ok {
		operation = verb
	}

	return entityType, operation
}
