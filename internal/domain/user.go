package domain

import (
	"context"
	"time"

	"blogapi/internal/authz"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	Roles        []*Role   `json:"roles"`
}

// RoleSet returns the names of the roles loaded on the user.
func (u *User) RoleSet() authz.RoleSet {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return authz.NewRoleSet(names...)
}

func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// UserRef is the public projection of a user embedded in other entities.
type UserRef struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,max=120,emailshape"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserInput struct {
	Username    *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email       *string `json:"email" validate:"omitempty,max=120,emailshape"`
	OldPassword *string `json:"old_password"`
	NewPassword *string `json:"new_password" validate:"omitempty,min=6,max=72"`
}

type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"access_token"`
}

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	ResolveActor(ctx context.Context, token string) (authz.Actor, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*User, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in UpdateUserInput) (*User, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
	List(ctx context.Context, actor authz.Actor) ([]*User, error)
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer issues and verifies signed identity tokens carrying a user id.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}
