package repository

import (
	"context"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type AuditLogRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewAuditLogRepository(db DBTX, logger logger.Logger) domain.AuditLogRepository {
	return &AuditLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AuditLogRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	query := `
		INSERT INTO audit_logs (entity_type, entity_id, action, actor_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	log.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(
		ctx,
		query,
		string(log.EntityType),
		log.EntityID,
		string(log.Action),
		log.ActorID,
		log.Details,
		log.CreatedAt,
	).Scan(&log.ID)

	if err != nil {
		r.logger.ErrorContext(ctx, "Audit log entry could not be created", map[string]interface{}{
			"entity_type": log.EntityType,
			"entity_id":   log.EntityID,
			"error":       err.Error(),
		})
		return wrap("audit log entry could not be created", err)
	}

	return nil
}

func (r *AuditLogRepository) FindByEntityID(ctx context.Context, entityType domain.EntityType, entityID int64) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, actor_id, details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
	`

	return r.query(ctx, query, string(entityType), entityID)
}

func (r *AuditLogRepository) FindAll(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error) {
	query := `
		SELECT id, entity_type, entity_id, action, actor_id, details, created_at
		FROM audit_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`

	return r.query(ctx, query, limit, offset)
}

func (r *AuditLogRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.AuditLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Audit log entries could not be listed", map[string]interface{}{"error": err.Error()})
		return nil, wrap("audit log entries could not be listed", err)
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var log domain.AuditLog
		var entityType, action string

		err := rows.Scan(
			&log.ID,
			&entityType,
			&log.EntityID,
			&action,
			&log.ActorID,
			&log.Details,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, wrap("audit log row could not be read", err)
		}

		log.EntityType = domain.EntityType(entityType)
		log.Action = domain.ActionType(action)

		logs = append(logs, &log)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("audit log rows could not be read", err)
	}

	return logs, nil
}
