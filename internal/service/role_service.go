package service

import (
	"context"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type RoleService struct {
	store     domain.Store
	guard     guard
	validator Validator
	logger    logger.Logger
}

func NewRoleService(store domain.Store, engine *authz.Engine, validator Validator, logger logger.Logger) domain.RoleService {
	return &RoleService{
		store:     store,
		guard:     guard{engine: engine, logger: logger},
		validator: validator,
		logger:    logger,
	}
}

func (s *RoleService) List(ctx context.Context, actor authz.Actor) ([]*domain.Role, error) {
	var roles []*domain.Role
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceRole, nil); err != nil {
			return err
		}

		found, err := tx.Roles().List(ctx)
		if err != nil {
			return err
		}
		roles = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_roles", err)
	}

	return roles, nil
}

func (s *RoleService) Create(ctx context.Context, actor authz.Actor, in domain.RoleInput) (*domain.Role, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	role := &domain.Role{Name: in.Name}
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionCreate, authz.ResourceRole, nil); err != nil {
			return err
		}

		if err := s.checkName(ctx, tx, 0, in.Name); err != nil {
			return err
		}

		if err := tx.Roles().Create(ctx, role); err != nil {
			return err
		}

		return audit(ctx, tx, actor, domain.EntityTypeRole, role.ID, domain.ActionTypeCreate, "role created: "+role.Name)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "create_role", err)
	}

	return role, nil
}

func (s *RoleService) checkName(ctx context.Context, tx domain.Tx, selfID int64, name string) error {
	existing, err := tx.Roles().FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewConflictError(fmt.Sprintf("role %q already exists", name))
	}
	return nil
}

func (s *RoleService) Update(ctx context.Context, actor authz.Actor, id int64, in domain.RoleInput) (*domain.Role, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var role *domain.Role
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionUpdate, authz.ResourceRole, nil); err != nil {
			return err
		}

		found, err := tx.Roles().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.NewNotFoundError(fmt.Sprintf("role %d not found", id))
		}

		if err := s.checkName(ctx, tx, found.ID, in.Name); err != nil {
			return err
		}

		previous := found.Name
		found.Name = in.Name
		if err := tx.Roles().Update(ctx, found); err != nil {
			return err
		}

		role = found
		return audit(ctx, tx, actor, domain.EntityTypeRole, found.ID, domain.ActionTypeUpdate,
			fmt.Sprintf("role renamed: %s -> %s", previous, found.Name))
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "update_role", err)
	}

	return role, nil
}

func (s *RoleService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionDelete, authz.ResourceRole, nil); err != nil {
			return err
		}

		found, err := tx.Roles().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.NewNotFoundError(fmt.Sprintf("role %d not found", id))
		}

		if err := tx.Roles().Delete(ctx, found.ID); err != nil {
			return err
		}

		return audit(ctx, tx, actor, domain.EntityTypeRole, found.ID, domain.ActionTypeDelete, "role deleted: "+found.Name)
	})
	if err != nil {
		return fail(ctx, s.logger, "delete_role", err)
	}

	return nil
}

// Assign grants a role by name. Holding the role already is a conflict.
func (s *RoleService) Assign(ctx context.Context, actor authz.Actor, in domain.RoleAssignmentInput) (*domain.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionAssign, authz.ResourceRole, nil); err != nil {
			return err
		}

		found, role, err := s.resolveAssignment(ctx, tx, in)
		if err != nil {
			return err
		}

		if err := loadRoles(ctx, tx, found); err != nil {
			return err
		}
		if found.HasRole(role.Name) {
			return domain.NewConflictError(fmt.Sprintf("user %d already holds role %q", found.ID, role.Name))
		}

		if err := tx.Roles().Assign(ctx, found.ID, role.ID); err != nil {
			return err
		}

		if err := audit(ctx, tx, actor, domain.EntityTypeRole, role.ID, domain.ActionTypeAssign,
			fmt.Sprintf("role %s assigned to user %d", role.Name, found.ID)); err != nil {
			return err
		}

		user = found
		return loadRoles(ctx, tx, user)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "assign_role", err)
	}

	return user, nil
}

func (s *RoleService) Revoke(ctx context.Context, actor authz.Actor, in domain.RoleAssignmentInput) (*domain.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionRevoke, authz.ResourceRole, nil); err != nil {
			return err
		}

		found, role, err := s.resolveAssignment(ctx, tx, in)
		if err != nil {
			return err
		}

		removed, err := tx.Roles().Revoke(ctx, found.ID, role.ID)
		if err != nil {
			return err
		}
		if !removed {
			return domain.NewNotFoundError(fmt.Sprintf("user %d does not hold role %q", found.ID, role.Name))
		}

		if err := audit(ctx, tx, actor, domain.EntityTypeRole, role.ID, domain.ActionTypeRevoke,
			fmt.Sprintf("role %s revoked from user %d", role.Name, found.ID)); err != nil {
			return err
		}

		user = found
		return loadRoles(ctx, tx, user)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "revoke_role", err)
	}

	return user, nil
}

func (s *RoleService) resolveAssignment(ctx context.Context, tx domain.Tx, in domain.RoleAssignmentInput) (*domain.User, *domain.Role, error) {
	user, err := tx.Users().FindByID(ctx, in.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.NewNotFoundError(fmt.Sprintf("user %d not found", in.UserID))
	}

	role, err := tx.Roles().FindByName(ctx, in.RoleName)
	if err != nil {
		return nil, nil, err
	}
	if role == nil {
		return nil, nil, domain.NewNotFoundError(fmt.Sprintf("role %q not found", in.RoleName))
	}

	return user, role, nil
}
