package service

import (
	"context"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
	"blogapi/pkg/metrics"
)

// Validator checks input structs and returns a domain validation error.
type Validator interface {
	Struct(s interface{}) error
}

// guard asks the authorization engine for a decision and turns a denial into
// a domain error.
type guard struct {
	engine *authz.Engine
	logger logger.Logger
}

func (g guard) authorize(ctx context.Context, actor authz.Actor, action authz.Action, resource authz.Resource, target *authz.Target) error {
	decision := g.engine.Decide(authz.Request{
		Actor:    actor,
		Action:   action,
		Resource: resource,
		Target:   target,
	})

	metrics.RecordAuthzDecision(string(resource), string(action), decision.Allowed, string(decision.Reason))

	if decision.Allowed {
		return nil
	}

	g.logger.WarnContext(ctx, "Request denied", map[string]interface{}{
		"actor_id": actor.ID,
		"action":   action,
		"resource": resource,
		"reason":   decision.Reason,
	})

	switch decision.Reason {
	case authz.ReasonNotFound:
		return domain.NewNotFoundError(decision.Message)
	case authz.ReasonUnauthenticated:
		return domain.NewUnauthenticatedError(decision.Message)
	}
	return domain.NewForbiddenError(string(decision.Reason), decision.Message)
}

// fail converts err into a structured error and logs it. Store failures are
// logged at error level, everything else is a rejected request.
func fail(ctx context.Context, log logger.Logger, op string, err error) error {
	de := domain.AsError(err)

	if de.Kind == domain.KindStoreFailure {
		log.ErrorContext(ctx, "Operation failed", map[string]interface{}{
			"operation": op,
			"error":     err.Error(),
		})
		return de
	}

	log.DebugContext(ctx, "Operation rejected", map[string]interface{}{
		"operation": op,
		"kind":      de.Kind,
		"message":   de.Message,
	})
	return de
}

func audit(ctx context.Context, tx domain.Tx, actor authz.Actor, entity domain.EntityType, id int64, action domain.ActionType, details string) error {
	err := tx.AuditLogs().Create(ctx, &domain.AuditLog{
		EntityType: entity,
		EntityID:   id,
		Action:     action,
		ActorID:    actor.ID,
		Details:    details,
	})
	if err != nil {
		return fmt.Errorf("audit entry could not be written: %w", err)
	}
	return nil
}

func roleSet(roles []*domain.Role) authz.RoleSet {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.Name)
	}
	return authz.NewRoleSet(names...)
}

// ownerTarget loads the roles of ownerID so hierarchy rules can inspect them.
func ownerTarget(ctx context.Context, tx domain.Tx, ownerID int64) (*authz.Target, error) {
	roles, err := tx.Roles().ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &authz.Target{OwnerID: ownerID, OwnerRoles: roleSet(roles)}, nil
}

func loadRoles(ctx context.Context, tx domain.Tx, user *domain.User) error {
	roles, err := tx.Roles().ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Roles = roles
	return nil
}

func blogExists(ctx context.Context, tx domain.Tx, blogID int64) error {
	blog, err := tx.Blogs().FindByID(ctx, blogID)
	if err != nil {
		return err
	}
	if blog == nil {
		return domain.NewNotFoundError(fmt.Sprintf("blog %d not found", blogID))
	}
	return nil
}
