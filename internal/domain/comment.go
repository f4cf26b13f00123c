package domain

import (
	"context"
	"time"

	"blogapi/internal/authz"
)

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AuthorID  int64     `json:"-"`
	BlogID    int64     `json:"-"`
	Author    UserRef   `json:"author"`
}

type CommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

type CommentRepository interface {
	FindByID(ctx context.Context, id int64) (*Comment, error)
	FindByBlog(ctx context.Context, blogID int64) ([]*Comment, error)
	Create(ctx context.Context, comment *Comment) error
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id int64) error
}

type CommentService interface {
	Create(ctx context.Context, actor authz.Actor, blogID int64, in CommentInput) (*Comment, error)
	ListByBlog(ctx context.Context, actor authz.Actor, blogID int64) ([]*Comment, error)
	Update(ctx context.Context, actor authz.Actor, id int64, in CommentInput) (*Comment, error)
	Delete(ctx context.Context, actor authz.Actor, id int64) error
}
