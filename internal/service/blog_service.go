package service

import (
	"context"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type BlogService struct {
	store     domain.Store
	guard     guard
	validator Validator
	files     domain.FileStore
	logger    logger.Logger
}

func NewBlogService(
	store domain.Store,
	engine *authz.Engine,
	validator Validator,
	files domain.FileStore,
	logger logger.Logger,
) domain.BlogService {
	return &BlogService{
		store:     store,
		guard:     guard{engine: engine, logger: logger},
		validator: validator,
		files:     files,
		logger:    logger,
	}
}

func (s *BlogService) Create(ctx context.Context, actor authz.Actor, in domain.CreateBlogInput) (*domain.Blog, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.BlogStatusDraft
	}

	var blog *domain.Blog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionCreate, authz.ResourceBlog, nil); err != nil {
			return err
		}

		created := &domain.Blog{
			Title:   in.Title,
			Content: in.Content,
			Status:  status,
			OwnerID: actor.ID,
		}
		if err := tx.Blogs().Create(ctx, created); err != nil {
			return err
		}

		if err := audit(ctx, tx, actor, domain.EntityTypeBlog, created.ID, domain.ActionTypeCreate, "blog created: "+created.Title); err != nil {
			return err
		}

		found, err := tx.Blogs().FindByID(ctx, created.ID)
		if err != nil {
			return err
		}
		blog = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "create_blog", err)
	}

	return blog, nil
}

func (s *BlogService) Get(ctx context.Context, actor authz.Actor, id int64) (*domain.Blog, error) {
	var blog *domain.Blog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionRead, authz.ResourceBlog, nil); err != nil {
			return err
		}

		found, err := tx.Blogs().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.NewNotFoundError(fmt.Sprintf("blog %d not found", id))
		}
		blog = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "get_blog", err)
	}

	return blog, nil
}

func (s *BlogService) ListByStatus(ctx context.Context, actor authz.Actor, status domain.BlogStatus) ([]*domain.Blog, error) {
	var blogs []*domain.Blog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceBlog, nil); err != nil {
			return err
		}

		if !status.Valid() {
			return domain.NewFieldError("status", "must be one of: draft, published")
		}

		found, err := tx.Blogs().FindByStatus(ctx, status)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return domain.NewNotFoundError(fmt.Sprintf("no %s blogs found", status))
		}
		blogs = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_blogs_by_status", err)
	}

	return blogs, nil
}

func (s *BlogService) ListByUser(ctx context.Context, actor authz.Actor, userID int64) ([]*domain.Blog, error) {
	var blogs []*domain.Blog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceBlog, nil); err != nil {
			return err
		}

		found, err := tx.Blogs().FindByOwner(ctx, userID)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return domain.NewNotFoundError(fmt.Sprintf("no blogs found for user %d", userID))
		}
		blogs = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_blogs_by_user", err)
	}

	return blogs, nil
}

// Update applies only the provided fields.
func (s *BlogService) Update(ctx context.Context, actor authz.Actor, id int64, in domain.UpdateBlogInput) (*domain.Blog, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var blog *domain.Blog
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		found, err := tx.Blogs().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var target *authz.Target
		if found != nil {
			target = &authz.Target{OwnerID: found.OwnerID}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionUpdate, authz.ResourceBlog, target); err != nil {
			return err
		}

		if in.Title != nil {
			found.Title = *in.Title
		}
		if in.Content != nil {
			found.Content = *in.Content
		}
		if in.Status != nil {
			found.Status = *in.Status
		}

		if err := tx.Blogs().Update(ctx, found); err != nil {
			return err
		}

		blog = found
		return audit(ctx, tx, actor, domain.EntityTypeBlog, found.ID, domain.ActionTypeUpdate, "blog updated: "+found.Title)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "update_blog", err)
	}

	return blog, nil
}

// Delete removes the blog and everything hanging off it. Stored media files
// are removed after the commit; a failure there is only logged.
func (s *BlogService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	var urls []string
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		found, err := tx.Blogs().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var target *authz.Target
		if found != nil {
			if target, err = ownerTarget(ctx, tx, found.OwnerID); err != nil {
				return err
			}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionDelete, authz.ResourceBlog, target); err != nil {
			return err
		}

		media, err := tx.Media().FindByBlog(ctx, found.ID)
		if err != nil {
			return err
		}
		for _, m := range media {
			urls = append(urls, m.URL)
		}

		if err := tx.Blogs().Delete(ctx, found.ID); err != nil {
			return err
		}

		return audit(ctx, tx, actor, domain.EntityTypeBlog, found.ID, domain.ActionTypeDelete, "blog deleted: "+found.Title)
	})
	if err != nil {
		return fail(ctx, s.logger, "delete_blog", err)
	}

	for _, url := range urls {
		if err := s.files.Remove(ctx, url); err != nil {
			s.logger.WarnContext(ctx, "Media file could not be removed", map[string]interface{}{"url": url, "error": err.Error()})
		}
	}

	s.logger.InfoContext(ctx, "Blog deleted", map[string]interface{}{"blog_id": id, "actor_id": actor.ID, "media_files": len(urls)})
	return nil
}
