package service

import (
	"context"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type AuditLogService struct {
	store  domain.Store
	guard  guard
	logger logger.Logger
}

func NewAuditLogService(store domain.Store, engine *authz.Engine, logger logger.Logger) domain.AuditLogService {
	return &AuditLogService{
		store:  store,
		guard:  guard{engine: engine, logger: logger},
		logger: logger,
	}
}

func (s *AuditLogService) GetEntityLogs(ctx context.Context, actor authz.Actor, entityType domain.EntityType, entityID int64) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionRead, authz.ResourceAuditLog, nil); err != nil {
			return err
		}

		if !entityType.Valid() {
			return domain.NewFieldError("entity_type", "must be one of: user, role, blog, category, comment, like, media")
		}

		found, err := tx.AuditLogs().FindByEntityID(ctx, entityType, entityID)
		if err != nil {
			return err
		}
		logs = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "get_entity_logs", err)
	}

	return logs, nil
}

func (s *AuditLogService) GetAllLogs(ctx context.Context, actor authz.Actor, page, pageSize int) ([]*domain.AuditLog, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	offset := (page - 1) * pageSize

	var logs []*domain.AuditLog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceAuditLog, nil); err != nil {
			return err
		}

		found, err := tx.AuditLogs().FindAll(ctx, pageSize, offset)
		if err != nil {
			return err
		}
		logs = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "get_all_logs", err)
	}

	return logs, nil
}
