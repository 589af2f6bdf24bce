package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
	"github.com/clinicore/clinicore/internal/audit/repository"
	"github.com/clinicore/clinicore/internal/auditcontext"
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/event/bus"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"github.com/clinicore/clinicore/internal/event/store"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, enabled bool) (auditdomain.Service, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&auditdomain.AuditTrail{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Cfg:   config.Config{AuditEnabled: enabled},
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func TestRecord_CreationEntry(t *testing.T) {
	svc, conn := newTestService(t, true)

	ctx := auditcontext.WithActor(context.Background(), "user", "user-7")
	ctx = auditcontext.WithIPAddress(ctx, "203.0.113.9")
	ctx = auditcontext.WithUserAgent(ctx, "clinicore-web/1.0")

	event := eventdomain.New("patient-1", "patient.created", map[string]any{
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.NoError(t, svc.Record(ctx, event))

	var entry auditdomain.AuditTrail
	require.NoError(t, conn.First(&entry, "entity_id = ?", "patient-1").Error)

	assert.Equal(t, auditdomain.EntityPatient, entry.EntityType)
	assert.Equal(t, auditdomain.OperationCreated, entry.Operation)
	assert.Equal(t, "Ada", entry.Changes["first_name"])
	require.NotNil(t, entry.ChangedBy)
	assert.Equal(t, "user-7", *entry.ChangedBy)
	require.NotNil(t, entry.IPAddress)
	assert.Equal(t, "203.0.113.9", *entry.IPAddress)
	require.NotNil(t, entry.UserAgent)
	assert.Equal(t, "clinicore-web/1.0", *entry.UserAgent)
}

func TestRecord_UpdateEntryOmitsUnchangedFields(t *testing.T) {
	svc, conn := newTestService(t, true)

	event := eventdomain.New("patient-1", "patient.updated", map[string]any{
		"old": map[string]any{"first_name": "Ada", "email": "ada@example.com"},
		"new": map[string]any{"first_name": "Grace", "email": "ada@example.com"},
	})
	require.NoError(t, svc.Record(context.Background(), event))

	var entry auditdomain.AuditTrail
	require.NoError(t, conn.First(&entry, "entity_id = ?", "patient-1").Error)

	assert.True(t, entry.HasFieldChanged("first_name"))
	assert.False(t, entry.HasFieldChanged("email"))
}

func TestRecord_MissingContextYieldsNullMetadata(t *testing.T) {
	svc, conn := newTestService(t, true)

	event := eventdomain.New("customer-1", "customer.created", map[string]any{"name": "ACME"})
	require.NoError(t, svc.Record(context.Background(), event))

	var entry auditdomain.AuditTrail
	require.NoError(t, conn.First(&entry, "entity_id = ?", "customer-1").Error)

	assert.Nil(t, entry.ChangedBy)
	assert.Nil(t, entry.IPAddress)
	assert.Nil(t, entry.UserAgent)
}

func TestRecord_DisabledWritesNothing(t *testing.T) {
	svc, conn := newTestService(t, false)

	event := eventdomain.New("patient-1", "patient.created", map[string]any{"first_name": "Ada"})
	require.NoError(t, svc.Record(context.Background(), event))

	var count int64
	require.NoError(t, conn.Model(&auditdomain.AuditTrail{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecord_DisabledLeavesEventStoreIntact(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&auditdomain.AuditTrail{}, &eventdomain.StoredEvent{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	// Same wiring as production: the store and the audit recorder are
	// independent subscribers on one bus.
	eventBus := bus.New(log)
	eventBus.Subscribe(store.New(store.Params{DB: conn, Log: log, GenID: node}).Append)

	svc := New(Params{
		DB:    conn,
		Log:   log,
		GenID: node,
		Cfg:   config.Config{AuditEnabled: false},
		Repo:  repository.Provide(),
	})
	eventBus.Subscribe(svc.Record)

	event := eventdomain.New("patient-1", "patient.created", map[string]any{"first_name": "Ada"})
	require.NoError(t, eventBus.Publish(context.Background(), event))

	var eventCount int64
	require.NoError(t, conn.Model(&eventdomain.StoredEvent{}).Count(&eventCount).Error)
	assert.Equal(t, int64(1), eventCount)

	var auditCount int64
	require.NoError(t, conn.Model(&auditdomain.AuditTrail{}).Count(&auditCount).Error)
	assert.Zero(t, auditCount)
}

func TestRecord_PersistenceFailureIsSwallowed(t *testing.T) {
	svc, conn := newTestService(t, true)

	// Dropping the table makes every insert fail.
	require.NoError(t, conn.Migrator().DropTable(&auditdomain.AuditTrail{}))

	event := eventdomain.New("patient-1", "patient.created", map[string]any{"first_name": "Ada"})
	assert.NoError(t, svc.Record(context.Background(), event))
}

func TestList_FiltersByEntity(t *testing.T) {
	svc, _ := newTestService(t, true)
	ctx := context.Background()

	require.NoError(t, svc.Record(ctx, eventdomain.New("patient-1", "patient.created", map[string]any{"a": 1})))
	require.NoError(t, svc.Record(ctx, eventdomain.New("patient-1", "patient.updated", map[string]any{
		"old": map[string]any{"a": float64(1)},
		"new": map[string]any{"a": float64(2)},
	})))
	require.NoError(t, svc.Record(ctx, eventdomain.New("customer-1", "customer.created", map[string]any{"b": 2})))

	resp, err := svc.List(ctx, auditdomain.ListAuditTrailRequest{EntityType: auditdomain.EntityPatient})
	require.NoError(t, err)
	assert.Len(t, resp.AuditTrails, 2)

	resp, err = svc.List(ctx, auditdomain.ListAuditTrailRequest{Operation: auditdomain.OperationCreated})
	require.NoError(t, err)
	assert.Len(t, resp.AuditTrails, 2)
}

func TestList_RejectsBadPageToken(t *testing.T) {
	svc, _ := newTestService(t, true)

	req := auditdomain.ListAuditTrailRequest{}
	req.PageToken = "not-a-cursor"

	_, err := svc.List(context.Background(), req)
	assert.ErrorIs(t, err, auditdomain.ErrInvalidPageToken)
}
