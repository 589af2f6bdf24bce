package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/clinicore/clinicore/internal/audit/domain"
	"github.com/clinicore/clinicore/internal/auditcontext"
	"github.com/clinicore/clinicore/internal/config"
	eventdomain "github.com/clinicore/clinicore/internal/event/domain"
	"github.com/clinicore/clinicore/internal/observability/metrics"
	"github.com/clinicore/clinicore/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Cfg     config.Config
	Repo    auditdomain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    auditdomain.Repository
	metrics *metrics.Metrics

	// enabled is fixed at construction so concurrently configured
	// instances never observe each other's toggle.
	enabled bool
}

func New(p Params) auditdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("audit.service"),
		genID:   p.GenID,
		repo:    p.Repo,
		metrics: p.Metrics,
		enabled: p.Cfg.AuditEnabled,
	}
}

// Record writes one audit entry for a published domain event. It never
// fails the publishing operation: when auditing is disabled it is a
// no-op (the event store keeps its copy regardless), and a persistence
// failure here is logged and swallowed because the business write has
// already committed.
func (s *Service) Record(ctx context.Context, event eventdomain.Event) error {
	if !s.enabled {
		return nil
	}

	entityType, operation := auditdomain.Classify(event.Name)
	changes := buildChanges(operation, event.Payload)

	entry := auditdomain.AuditTrail{
		ID:         s.genID.Generate(),
		EntityType: entityType,
		EntityID:   event.AggregateID,
		Operation:  operation,
		Changes:    datatypes.JSONMap(changes),
		CreatedAt:  time.Now().UTC(),
	}

	if _, actorID := auditcontext.ActorFromContext(ctx); actorID != "" {
		entry.ChangedBy = &actorID
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := auditcontext.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit trail entry",
			zap.String("event", event.Name),
			zap.String("entity_id", event.AggregateID),
			zap.Error(err),
		)
		return nil
	}

	s.metrics.RecordAuditEntry(ctx, entityType)
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListAuditTrailRequest) (auditdomain.ListAuditTrailResponse, error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return auditdomain.ListAuditTrailResponse{}, auditdomain.ErrInvalidTimeRange
	}

	var cursor *auditdomain.Cursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return auditdomain.ListAuditTrailResponse{}, auditdomain.ErrInvalidPageToken
		}
		createdAt, err := time.Parse(time.RFC3339, decoded.CreatedAt)
		if err != nil {
			return auditdomain.ListAuditTrailResponse{}, auditdomain.ErrInvalidPageToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return auditdomain.ListAuditTrailResponse{}, auditdomain.ErrInvalidPageToken
		}
		cursor = &auditdomain.Cursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 250 {
		pageSize = 250
	}

	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Operation:  req.Operation,
		ChangedBy:  req.ChangedBy,
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
		Cursor:     cursor,
		Limit:      pageSize,
	})
	if err != nil {
		return auditdomain.ListAuditTrailResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, int32(pageSize), func(item *auditdomain.AuditTrail) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	trails := make([]auditdomain.AuditTrail, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		trails = append(trails, *item)
	}

	resp := auditdomain.ListAuditTrailResponse{AuditTrails: trails}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}
