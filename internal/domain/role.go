package domain

import (
	"context"

	"blogapi/internal/authz"
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BootstrapRoles are provisioned by the initial migration.
var BootstrapRoles = []string{authz.RoleReader, authz.RoleAuthor, authz.RoleAdmin, authz.RoleSuperAdmin}

// DefaultRoles are assigned at registration.
var DefaultRoles = []string{authz.RoleAuthor, authz.RoleReader}

type RoleInput struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

type RoleAssignmentInput struct {
	UserID   int64  `json:"user_id" validate:"required,gt=0"`
	RoleName string `json:"role_name" validate:"required"`
}

type RoleRepository interface {
	FindByID(ctx context.Context, id int64) (*Role, error)
	FindByName(ctx context.Context, name string) (*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Create(ctx context.Context, role *Role) error
	Update(ctx context.Context, role *Role) error
	Delete(ctx context.Context, id int64) error

	ListByUser(ctx context.Context, userID int64) ([]*Role, error)
	Assign(ctx context.Context, userID, roleID int64) error
	// Revoke reports whether an assignment existed.
	Revoke(ctx context.Context, userID, roleID int64) (bool, error)
}

type RoleService interface {
	List(ctx context.Context, actor authz.Actor) ([]*Role, error)
	Create(ctx context.Context, actor authz.Actor, in RoleInput) (*Role, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in RoleInput) (*Role, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
	Assign(ctx context.Context, actor authz.Actor, in RoleAssignmentInput) (*User, error)
	Revoke(ctx context.Context, actor authz.Actor, in RoleAssignmentInput) (*User, error)
}
