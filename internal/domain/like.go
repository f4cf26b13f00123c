package domain

import (
	"context"
	"time"

	"blogapi/internal/authz"
)

type Like struct {
	UserID    int64     `json:"user_id"`
	BlogID    int64     `json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`
}

type LikeInput struct {
	BlogID int64 `json:"blog_id" validate:"required,gt=0"`
}

type LikeRepository interface {
	Exists(ctx context.Context, userID, blogID int64) (bool, error)
	Create(ctx context.Context, like *Like) error
	// Delete reports whether a like was removed.
	Delete(ctx context.Context, userID, blogID int64) (bool, error)
	CountByBlog(ctx context.Context, blogID int64) (int64, error)
	ListLikers(ctx context.Context, blogID int64) ([]*UserRef, error)
	ListLikedBlogs(ctx context.Context, userID int64) ([]*Blog, error)
}

type LikeService interface {
	Add(ctx context.Context, actor authz.Actor, blogID int64) (*Like, error)
	Remove(ctx context.Context, actor authz.Actor, blogID int64) error
	Count(ctx context.Context, actor authz.Actor, blogID int64) (int64, error)
	Likers(ctx context.Context, actor authz.Actor, blogID int64) ([]*UserRef, error)
	LikedBlogs(ctx context.Context, actor authz.Actor) ([]*Blog, error)
}
