package domain

import (
	"context"
	"time"

	"blogapi/internal/authz"
)

type EntityType string
type ActionType string

const (
	EntityTypeUser     EntityType = "user"
	EntityTypeRole     EntityType = "role"
	EntityTypeBlog     EntityType = "blog"
	EntityTypeCategory EntityType = "category"
	EntityTypeComment  EntityType = "comment"
	EntityTypeLike     EntityType = "like"
	EntityTypeMedia    EntityType = "media"

	ActionTypeCreate ActionType = "create"
	ActionTypeUpdate ActionType = "update"
	ActionTypeDelete ActionType = "delete"
	ActionTypeAssign ActionType = "assign"
	ActionTypeRevoke ActionType = "revoke"
	ActionTypeAttach ActionType = "attach"
	ActionTypeDetach ActionType = "detach"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityTypeUser, EntityTypeRole, EntityTypeBlog, EntityTypeCategory,
		EntityTypeComment, EntityTypeLike, EntityTypeMedia:
		return true
	}
	return false
}

type AuditLog struct {
	ID         int64      `json:"id"`
	EntityType EntityType `json:"entity_type"`
	EntityID   int64      `json:"entity_id"`
	Action     ActionType `json:"action"`
	ActorID    int64      `json:"actor_id"`
	Details    string     `json:"details,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *AuditLog) error
	FindByEntityID(ctx context.Context, entityType EntityType, entityID int64) ([]*AuditLog, error)
	FindAll(ctx context.Context, limit, offset int) ([]*AuditLog, error)
}

type AuditLogService interface {
	GetEntityLogs(ctx context.Context, actor authz.Actor, entityType EntityType, entityID int64) ([]*AuditLog, error)
	GetAllLogs(ctx context.Context, actor authz.Actor, page, pageSize int) ([]*AuditLog, error)
}
