package service

import (
	"context"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CommentService struct {
	store     domain.Store
	guard     guard
	validator Validator
	logger    logger.Logger
}

func NewCommentService(store domain.Store, engine *authz.Engine, validator Validator, logger logger.Logger) domain.CommentService {
	return &CommentService{
		store:     store,
		guard:     guard{engine: engine, logger: logger},
		validator: validator,
		logger:    logger,
	}
}

func (s *CommentService) Create(ctx context.Context, actor authz.Actor, blogID int64, in domain.CommentInput) (*domain.Comment, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var comment *domain.Comment
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionCreate, authz.ResourceComment, nil); err != nil {
			return err
		}

		if err := blogExists(ctx, tx, blogID); err != nil {
			return err
		}

		created := &domain.Comment{
			Content:  in.Content,
			AuthorID: actor.ID,
			BlogID:   blogID,
		}
		if err := tx.Comments().Create(ctx, created); err != nil {
			return err
		}

		if err := audit(ctx, tx, actor, domain.EntityTypeComment, created.ID, domain.ActionTypeCreate,
			fmt.Sprintf("comment added to blog %d", blogID)); err != nil {
			return err
		}

		found, err := tx.Comments().FindByID(ctx, created.ID)
		if err != nil {
			return err
		}
		comment = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "create_comment", err)
	}

	return comment, nil
}

func (s *CommentService) ListByBlog(ctx context.Context, actor authz.Actor, blogID int64) ([]*domain.Comment, error) {
	var comments []*domain.Comment
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceComment, nil); err != nil {
			return err
		}

		if err := blogExists(ctx, tx, blogID); err != nil {
			return err
		}

		found, err := tx.Comments().FindByBlog(ctx, blogID)
		if err != nil {
			return err
		}
		comments = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_comments", err)
	}

	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, actor authz.Actor, id int64, in domain.CommentInput) (*domain.Comment, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	var comment *domain.Comment
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		found, err := tx.Comments().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var target *authz.Target
		if found != nil {
			target = &authz.Target{OwnerID: found.AuthorID}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionUpdate, authz.ResourceComment, target); err != nil {
			return err
		}

		found.Content = in.Content
		if err := tx.Comments().Update(ctx, found); err != nil {
			return err
		}

		comment = found
		return audit(ctx, tx, actor, domain.EntityTypeComment, found.ID, domain.ActionTypeUpdate, "comment updated")
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "update_comment", err)
	}

	return comment, nil
}

// Delete is reserved to the comment's author.
func (s *CommentService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		found, err := tx.Comments().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var target *authz.Target
		if found != nil {
			target = &authz.Target{OwnerID: found.AuthorID}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionDelete, authz.ResourceComment, target); err != nil {
			return err
		}

		if err := tx.Comments().Delete(ctx, found.ID); err != nil {
			return err
		}

		return audit(ctx, tx, actor, domain.EntityTypeComment, found.ID, domain.ActionTypeDelete,
			fmt.Sprintf("comment removed from blog %d", found.BlogID))
	})
	if err != nil {
		return fail(ctx, s.logger, "delete_comment", err)
	}

	return nil
}
