package domain

import (
	"context"
	"time"

	"blogapi/internal/authz"
)

type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
)

func (s BlogStatus) Valid() bool {
	return s == BlogStatusDraft || s == BlogStatusPublished
}

type Blog struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Status    BlogStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	OwnerID   int64      `json:"-"`
	Owner     UserRef    `json:"owner"`
}

// BlogSummary is the projection of a blog listed under a category.
type BlogSummary struct {
	ID     int64      `json:"id"`
	Title  string     `json:"title"`
	Status BlogStatus `json:"status"`
}

type CreateBlogInput struct {
	Title   string     `json:"title" validate:"required,min=5,max=200"`
	Content string     `json:"content" validate:"required,min=20"`
	Status  BlogStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

type UpdateBlogInput struct {
	Title   *string     `json:"title" validate:"omitempty,min=5,max=200"`
	Content *string     `json:"content" validate:"omitempty,min=20"`
	Status  *BlogStatus `json:"status" validate:"omitempty,oneof=draft published"`
}

type BlogRepository interface {
	FindByID(ctx context.Context, id int64) (*Blog, error)
	FindByStatus(ctx context.Context, status BlogStatus) ([]*Blog, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]*Blog, error)
	Create(ctx context.Context, blog *Blog) error
	Update(ctx context.Context, blog *Blog) error
	Delete(ctx context.Context, id int64) error
}

type BlogService interface {
	Create(ctx context.Context, actor authz.Actor, in CreateBlogInput) (*Blog, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*Blog, error)
	ListByStatus(ctx context.Context, actor authz.Actor, status BlogStatus) ([]*Blog, error)
	ListByUser(ctx context.Context, actor authz.Actor, userID int64) ([]*Blog, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in UpdateBlogInput) (*Blog, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}
