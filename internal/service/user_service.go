package service

import (
	"context"
	"errors"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
	"blogapi/pkg/metrics"
)

const (
	reasonOldPasswordRequired = "old_password_required"
	reasonOldPasswordMismatch = "old_password_mismatch"
)

type UserService struct {
	store     domain.Store
	guard     guard
	validator Validator
	hasher    domain.PasswordHasher
	tokens    domain.TokenIssuer
	logger    logger.Logger
}

func NewUserService(
	store domain.Store,
	engine *authz.Engine,
	validator Validator,
	hasher domain.PasswordHasher,
	tokens domain.TokenIssuer,
	logger logger.Logger,
) domain.UserService {
	return &UserService{
		store:     store,
		guard:     guard{engine: engine, logger: logger},
		validator: validator,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger,
	}
}

func (s *UserService) Register(ctx context.Context, in domain.RegisterInput) (*domain.AuthResult, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fail(ctx, s.logger, "register", fmt.Errorf("password could not be hashed: %w", err))
	}

	var result *domain.AuthResult
	err = s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.checkUnique(ctx, tx, 0, in.Username, in.Email); err != nil {
			return err
		}

		user := &domain.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
		}
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}

		for _, name := range domain.DefaultRoles {
			role, err := tx.Roles().FindByName(ctx, name)
			if err != nil {
				return err
			}
			if role == nil {
				return fmt.Errorf("default role %q is not provisioned", name)
			}
			if err := tx.Roles().Assign(ctx, user.ID, role.ID); err != nil {
				return err
			}
		}

		if err := loadRoles(ctx, tx, user); err != nil {
			return err
		}

		self := authz.Actor{ID: user.ID, Roles: user.RoleSet()}
		if err := audit(ctx, tx, self, domain.EntityTypeUser, user.ID, domain.ActionTypeCreate, "user registered: "+user.Username); err != nil {
			return err
		}

		token, err := s.tokens.Issue(user.ID)
		if err != nil {
			return fmt.Errorf("token could not be issued: %w", err)
		}

		result = &domain.AuthResult{User: user, Token: token}
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "register", err)
	}

	metrics.RecordRegistration()
	s.logger.InfoContext(ctx, "User registered", map[string]interface{}{"user_id": result.User.ID, "username": result.User.Username})

	return result, nil
}

// checkUnique rejects a username or email held by a user other than selfID.
func (s *UserService) checkUnique(ctx context.Context, tx domain.Tx, selfID int64, username, email string) error {
	if email != "" {
		existing, err := tx.Users().FindByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return domain.NewConflictError("email is already registered")
		}
	}

	if username != "" {
		existing, err := tx.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			return domain.NewConflictError("username is already taken")
		}
	}

	return nil
}

func (s *UserService) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthResult, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var result *domain.AuthResult
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		user, err := tx.Users().FindByEmail(ctx, in.Email)
		if err != nil {
			return err
		}
		if user == nil || !s.hasher.Verify(user.PasswordHash, in.Password) {
			return domain.NewUnauthenticatedError("invalid email or password")
		}

		if err := loadRoles(ctx, tx, user); err != nil {
			return err
		}

		token, err := s.tokens.Issue(user.ID)
		if err != nil {
			return fmt.Errorf("token could not be issued: %w", err)
		}

		result = &domain.AuthResult{User: user, Token: token}
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "login", err)
	}

	return result, nil
}

// ResolveActor verifies token and loads the actor's roles once for the
// lifetime of the request.
func (s *UserService) ResolveActor(ctx context.Context, token string) (authz.Actor, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		s.logger.DebugContext(ctx, "Token rejected", map[string]interface{}{"error": err.Error()})
		return authz.Anonymous, domain.NewUnauthenticatedError("invalid or expired token")
	}

	actor := authz.Anonymous
	err = s.store.WithinTx(ctx, func(tx domain.Tx) error {
		user, err := tx.Users().FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewUnauthenticatedError("account no longer exists")
		}

		roles, err := tx.Roles().ListByUser(ctx, user.ID)
		if err != nil {
			return err
		}

		actor = authz.Actor{ID: user.ID, Roles: roleSet(roles)}
		return nil
	})
	if err != nil {
		return authz.Anonymous, fail(ctx, s.logger, "resolve_actor", err)
	}

	return actor, nil
}

func (s *UserService) Get(ctx context.Context, actor authz.Actor, id int64) (*domain.User, error) {
	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionRead, authz.ResourceUser, nil); err != nil {
			return err
		}

		found, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.NewNotFoundError(fmt.Sprintf("user %d not found", id))
		}

		user = found
		return loadRoles(ctx, tx, user)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "get_user", err)
	}

	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor authz.Actor, id int64, in domain.UpdateUserInput) (*domain.User, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var user *domain.User
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		found, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var target *authz.Target
		if found != nil {
			target = &authz.Target{OwnerID: found.ID}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionUpdate, authz.ResourceUser, target); err != nil {
			return err
		}

		var username, email string
		if in.Username != nil && *in.Username != found.Username {
			username = *in.Username
		}
		if in.Email != nil && *in.Email != found.Email {
			email = *in.Email
		}
		if err := s.checkUnique(ctx, tx, found.ID, username, email); err != nil {
			return err
		}
		if username != "" {
			found.Username = username
		}
		if email != "" {
			found.Email = email
		}

		if in.NewPassword != nil {
			if in.OldPassword == nil || *in.OldPassword == "" {
				return domain.NewForbiddenError(reasonOldPasswordRequired, "old password is required to set a new password")
			}
			if !s.hasher.Verify(found.PasswordHash, *in.OldPassword) {
				return domain.NewForbiddenError(reasonOldPasswordMismatch, "old password is incorrect")
			}
			hash, err := s.hasher.Hash(*in.NewPassword)
			if err != nil {
				return fmt.Errorf("password could not be hashed: %w", err)
			}
			found.PasswordHash = hash
		}

		if err := tx.Users().Update(ctx, found); err != nil {
			return err
		}

		if err := audit(ctx, tx, actor, domain.EntityTypeUser, found.ID, domain.ActionTypeUpdate, "user updated: "+found.Username); err != nil {
			return err
		}

		user = found
		return loadRoles(ctx, tx, user)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "update_user", err)
	}

	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		found, err := tx.Users().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var target *authz.Target
		if found != nil {
			if target, err = ownerTarget(ctx, tx, found.ID); err != nil {
				return err
			}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionDelete, authz.ResourceUser, target); err != nil {
			return err
		}

		if err := tx.Users().Delete(ctx, found.ID); err != nil {
			if errors.Is(err, domain.ErrReferenced) {
				return domain.NewConflictError("user still owns blogs, comments or likes")
			}
			return err
		}

		return audit(ctx, tx, actor, domain.EntityTypeUser, found.ID, domain.ActionTypeDelete, "user deleted: "+found.Username)
	})
	if err != nil {
		return fail(ctx, s.logger, "delete_user", err)
	}

	s.logger.InfoContext(ctx, "User deleted", map[string]interface{}{"user_id": id, "actor_id": actor.ID})
	return nil
}

func (s *UserService) List(ctx context.Context, actor authz.Actor) ([]*domain.User, error) {
	var users []*domain.User
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceUser, nil); err != nil {
			return err
		}

		found, err := tx.Users().List(ctx)
		if err != nil {
			return err
		}

		for _, user := range found {
			if err := loadRoles(ctx, tx, user); err != nil {
				return err
			}
		}

		users = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_users", err)
	}

	return users, nil
}
