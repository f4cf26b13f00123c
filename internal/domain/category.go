package domain

import (
	"context"

	"blogapi/internal/authz"
)

type Category struct {
	ID    int64          `json:"id"`
	Name  string         `json:"name"`
	Blogs []*BlogSummary `json:"blogs"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type CategoryRepository interface {
	FindByID(ctx context.Context, id int64) (*Category, error)
	FindByName(ctx context.Context, name string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id int64) error

	// AttachBlog is a no-op when the association already exists.
	AttachBlog(ctx context.Context, categoryID, blogID int64) error
	DetachBlog(ctx context.Context, categoryID, blogID int64) error
	ListBlogs(ctx context.Context, categoryID int64) ([]*BlogSummary, error)
}

type CategoryService interface {
	List(ctx context.Context, actor authz.Actor) ([]*Category, error)
	Get(ctx context.Context, actor authz.Actor, id int64) (*Category, error)
	Create(ctx context.Context, actor authz.Actor, in CategoryInput) (*Category, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in CategoryInput) (*Category, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
	AttachBlog(ctx context.Context, actor authz.Actor, categoryID, blogID int64) (*Category, error)
	DetachBlog(ctx context.Context, actor authz.Actor, categoryID, blogID int64) (*Category, error)
}
