package service

import (
	"context"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type LikeService struct {
	store  domain.Store
	guard  guard
	logger logger.Logger
}

func NewLikeService(store domain.Store, engine *authz.Engine, logger logger.Logger) domain.LikeService {
	return &LikeService{
		store:  store,
		guard:  guard{engine: engine, logger: logger},
		logger: logger,
	}
}

func (s *LikeService) Add(ctx context.Context, actor authz.Actor, blogID int64) (*domain.Like, error) {
	var like *domain.Like
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionCreate, authz.ResourceLike, nil); err != nil {
			return err
		}

		if err := blogExists(ctx, tx, blogID); err != nil {
			return err
		}

		exists, err := tx.Likes().Exists(ctx, actor.ID, blogID)
		if err != nil {
			return err
		}
		if exists {
			return domain.NewConflictError("already liked")
		}

		created := &domain.Like{UserID: actor.ID, BlogID: blogID}
		if err := tx.Likes().Create(ctx, created); err != nil {
			return err
		}

		like = created
		return audit(ctx, tx, actor, domain.EntityTypeLike, blogID, domain.ActionTypeCreate,
			fmt.Sprintf("user %d liked blog %d", actor.ID, blogID))
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "add_like", err)
	}

	return like, nil
}

// Remove deletes the actor's own like on blogID.
func (s *LikeService) Remove(ctx context.Context, actor authz.Actor, blogID int64) error {
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		exists, err := tx.Likes().Exists(ctx, actor.ID, blogID)
		if err != nil {
			return err
		}

		var target *authz.Target
		if exists {
			target = &authz.Target{OwnerID: actor.ID}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionDelete, authz.ResourceLike, target); err != nil {
			return err
		}

		removed, err := tx.Likes().Delete(ctx, actor.ID, blogID)
		if err != nil {
			return err
		}
		if !removed {
			return domain.NewNotFoundError("like not found")
		}

		return audit(ctx, tx, actor, domain.EntityTypeLike, blogID, domain.ActionTypeDelete,
			fmt.Sprintf("user %d unliked blog %d", actor.ID, blogID))
	})
	if err != nil {
		return fail(ctx, s.logger, "remove_like", err)
	}

	return nil
}

func (s *LikeService) Count(ctx context.Context, actor authz.Actor, blogID int64) (int64, error) {
	var count int64
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionRead, authz.ResourceLike, nil); err != nil {
			return err
		}

		if err := blogExists(ctx, tx, blogID); err != nil {
			return err
		}

		n, err := tx.Likes().CountByBlog(ctx, blogID)
		if err != nil {
			return err
		}
		count = n
		return nil
	})
	if err != nil {
		return 0, fail(ctx, s.logger, "count_likes", err)
	}

	return count, nil
}

func (s *LikeService) Likers(ctx context.Context, actor authz.Actor, blogID int64) ([]*domain.UserRef, error) {
	var users []*domain.UserRef
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceLike, nil); err != nil {
			return err
		}

		if err := blogExists(ctx, tx, blogID); err != nil {
			return err
		}

		found, err := tx.Likes().ListLikers(ctx, blogID)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return domain.NewNotFoundError(fmt.Sprintf("no likes found for blog %d", blogID))
		}
		users = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_likers", err)
	}

	return users, nil
}

// LikedBlogs lists the blogs liked by the actor.
func (s *LikeService) LikedBlogs(ctx context.Context, actor authz.Actor) ([]*domain.Blog, error) {
	var blogs []*domain.Blog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceLike, nil); err != nil {
			return err
		}

		found, err := tx.Likes().ListLikedBlogs(ctx, actor.ID)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return domain.NewNotFoundError("you have not liked any blogs")
		}
		blogs = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_liked_blogs", err)
	}

	return blogs, nil
}
