package service

import (
	"context"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CategoryService struct {
	store     domain.Store
	guard     guard
	validator Validator
	logger    logger.Logger
}

func NewCategoryService(store domain.Store, engine *authz.Engine, validator Validator, logger logger.Logger) domain.CategoryService {
	return &CategoryService{
		store:     store,
		guard:     guard{engine: engine, logger: logger},
		validator: validator,
		logger:    logger,
	}
}

func (s *CategoryService) List(ctx context.Context, actor authz.Actor) ([]*domain.Category, error) {
	var categories []*domain.Category
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceCategory, nil); err != nil {
			return err
		}

		found, err := tx.Categories().List(ctx)
		if err != nil {
			return err
		}
		for _, category := range found {
			if err := loadBlogs(ctx, tx, category); err != nil {
				return err
			}
		}
		categories = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_categories", err)
	}

	return categories, nil
}

func (s *CategoryService) Get(ctx context.Context, actor authz.Actor, id int64) (*domain.Category, error) {
	var category *domain.Category
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionRead, authz.ResourceCategory, nil); err != nil {
			return err
		}

		found, err := findCategory(ctx, tx, id)
		if err != nil {
			return err
		}
		category = found
		return loadBlogs(ctx, tx, category)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "get_category", err)
	}

	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, actor authz.Actor, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	category := &domain.Category{Name: in.Name, Blogs: make([]*domain.BlogSummary, 0)}
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionCreate, authz.ResourceCategory, nil); err != nil {
			return err
		}

		if err := s.checkName(ctx, tx, 0, in.Name); err != nil {
			return err
		}

		if err := tx.Categories().Create(ctx, category); err != nil {
			return err
		}

		return audit(ctx, tx, actor, domain.EntityTypeCategory, category.ID, domain.ActionTypeCreate, "category created: "+category.Name)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "create_category", err)
	}

	return category, nil
}

// checkName rejects a name held by a category other than selfID.
func (s *CategoryService) checkName(ctx context.Context, tx domain.Tx, selfID int64, name string) error {
	existing, err := tx.Categories().FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewConflictError(fmt.Sprintf("category %q already exists", name))
	}
	return nil
}

func (s *CategoryService) Update(ctx context.Context, actor authz.Actor, id int64, in domain.CategoryInput) (*domain.Category, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var category *domain.Category
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionUpdate, authz.ResourceCategory, nil); err != nil {
			return err
		}

		found, err := findCategory(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := s.checkName(ctx, tx, found.ID, in.Name); err != nil {
			return err
		}

		found.Name = in.Name
		if err := tx.Categories().Update(ctx, found); err != nil {
			return err
		}

		if err := audit(ctx, tx, actor, domain.EntityTypeCategory, found.ID, domain.ActionTypeUpdate, "category renamed: "+found.Name); err != nil {
			return err
		}

		category = found
		return loadBlogs(ctx, tx, category)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "update_category", err)
	}

	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionDelete, authz.ResourceCategory, nil); err != nil {
			return err
		}

		found, err := findCategory(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := tx.Categories().Delete(ctx, found.ID); err != nil {
			return err
		}

		return audit(ctx, tx, actor, domain.EntityTypeCategory, found.ID, domain.ActionTypeDelete, "category deleted: "+found.Name)
	})
	if err != nil {
		return fail(ctx, s.logger, "delete_category", err)
	}

	return nil
}

// AttachBlog is idempotent: attaching an already attached blog succeeds
// without a second association row.
func (s *CategoryService) AttachBlog(ctx context.Context, actor authz.Actor, categoryID, blogID int64) (*domain.Category, error) {
	return s.link(ctx, actor, authz.ActionAttach, categoryID, blogID)
}

// DetachBlog is a no-op when the blog is not attached.
func (s *CategoryService) DetachBlog(ctx context.Context, actor authz.Actor, categoryID, blogID int64) (*domain.Category, error) {
	return s.link(ctx, actor, authz.ActionDetach, categoryID, blogID)
}

func (s *CategoryService) link(ctx context.Context, actor authz.Actor, action authz.Action, categoryID, blogID int64) (*domain.Category, error) {
	var category *domain.Category
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		blog, err := tx.Blogs().FindByID(ctx, blogID)
		if err != nil {
			return err
		}

		var target *authz.Target
		if blog != nil {
			target = &authz.Target{OwnerID: blog.OwnerID}
		}
		if err := s.guard.authorize(ctx, actor, action, authz.ResourceCategory, target); err != nil {
			return err
		}

		found, err := findCategory(ctx, tx, categoryID)
		if err != nil {
			return err
		}

		auditAction := domain.ActionTypeAttach
		if action == authz.ActionDetach {
			auditAction = domain.ActionTypeDetach
			err = tx.Categories().DetachBlog(ctx, found.ID, blog.ID)
		} else {
			err = tx.Categories().AttachBlog(ctx, found.ID, blog.ID)
		}
		if err != nil {
			return err
		}

		if err := audit(ctx, tx, actor, domain.EntityTypeCategory, found.ID, auditAction,
			fmt.Sprintf("blog %d %sed", blog.ID, action)); err != nil {
			return err
		}

		category = found
		return loadBlogs(ctx, tx, category)
	})
	if err != nil {
		return nil, fail(ctx, s.logger, string(action)+"_category_blog", err)
	}

	return category, nil
}

func findCategory(ctx context.Context, tx domain.Tx, id int64) (*domain.Category, error) {
	category, err := tx.Categories().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("category %d not found", id))
	}
	return category, nil
}

func loadBlogs(ctx context.Context, tx domain.Tx, category *domain.Category) error {
	blogs, err := tx.Categories().ListBlogs(ctx, category.ID)
	if err != nil {
		return err
	}
	category.Blogs = blogs
	return nil
}
