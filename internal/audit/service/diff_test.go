package service

import (
	"testing"

	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildChanges_CreationKeepsFullPayload(t *testing.T) {
	payload := map[string]any{"first_name": "Ada", "last_name": "Lovelace"}

	changes := buildChanges(auditdomain.OperationCreated, payload)
	assert.Equal(t, payload, changes)
}

func TestBuildChanges_UpdateDiffsSnapshots(t *testing.T) {
	payload := map[string]any{
		"old": map[string]any{"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"},
		"new": map[string]any{"first_name": "Augusta Ada", "last_name": "Lovelace", "email": "ada@example.com"},
	}

	changes := buildChanges(auditdomain.OperationUpdated, payload)

	assert.Len(t, changes, 1)
	assert.Equal(t, map[string]any{"old": "Ada", "new": "Augusta Ada"}, changes["first_name"])
}

func TestBuildChanges_UpdateDetectsRemovedFields(t *testing.T) {
	payload := map[string]any{
		"old": map[string]any{"phone": "555-1234"},
		"new": map[string]any{},
	}

	changes := buildChanges(auditdomain.OperationUpdated, payload)
	assert.Equal(t, map[string]any{"old": "555-1234", "new": nil}, changes["phone"])
}

func TestBuildChanges_UpdateMinimizesPrecomputedChanges(t *testing.T) {
	payload := map[string]any{
		"changes": map[string]any{
			"first_name": map[string]any{"old": "Ada", "new": "Grace"},
			"last_name":  map[string]any{"old": "Lovelace", "new": "Lovelace"},
		},
	}

	changes := buildChanges(auditdomain.OperationUpdated, payload)

	// The upstream map is never trusted to be minimal.
	assert.Len(t, changes, 1)
	assert.Contains(t, changes, "first_name")
	assert.NotContains(t, changes, "last_name")
}

func TestBuildChanges_NilPayload(t *testing.T) {
	changes := buildChanges(auditdomain.OperationUpdated, nil)
	assert.NotNil(t, changes)
	assert.Empty(t, changes)
}
