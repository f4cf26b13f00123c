package service

import (
	"context"
	"fmt"

	"blogapi/internal/authz"
	"blogapi/internal/domain"
	"blogapi/pkg/logger"
	"blogapi/pkg/metrics"
	"blogapi/pkg/storage"
)

type MediaService struct {
	store     domain.Store
	guard     guard
	validator Validator
	files     domain.FileStore
	logger    logger.Logger
}

func NewMediaService(
	store domain.Store,
	engine *authz.Engine,
	validator Validator,
	files domain.FileStore,
	logger logger.Logger,
) domain.MediaService {
	return &MediaService{
		store:     store,
		guard:     guard{engine: engine, logger: logger},
		validator: validator,
		files:     files,
		logger:    logger,
	}
}

// Upload stores the file first and the row second. When anything after the
// file write fails the stored file is removed again.
func (s *MediaService) Upload(ctx context.Context, actor authz.Actor, in domain.UploadMediaInput) (*domain.Media, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if in.Content == nil {
		return nil, domain.NewFieldError("file", "is required")
	}

	var media *domain.Media
	var saved string
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		blog, err := tx.Blogs().FindByID(ctx, in.BlogID)
		if err != nil {
			return err
		}

		var target *authz.Target
		if blog != nil {
			target = &authz.Target{OwnerID: blog.OwnerID}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionCreate, authz.ResourceMedia, target); err != nil {
			return err
		}

		mediaType, ext, ok := domain.MediaTypeForFile(in.Filename)
		if !ok {
			return domain.NewFieldError("file", "unsupported file type")
		}

		url, err := s.files.Save(ctx, storage.ObjectName(ext), in.Content)
		if err != nil {
			return fmt.Errorf("media file could not be stored: %w", err)
		}
		saved = url

		if len(url) > domain.MaxMediaURLLength {
			return domain.NewFieldError("file", fmt.Sprintf("stored path must be at most %d characters", domain.MaxMediaURLLength))
		}

		created := &domain.Media{URL: url, Type: mediaType, BlogID: blog.ID}
		if err := tx.Media().Create(ctx, created); err != nil {
			return err
		}

		media = created
		return audit(ctx, tx, actor, domain.EntityTypeMedia, created.ID, domain.ActionTypeCreate,
			fmt.Sprintf("%s uploaded to blog %d", mediaType, blog.ID))
	})
	if err != nil {
		if saved != "" {
			s.removeFile(ctx, saved)
		}
		return nil, fail(ctx, s.logger, "upload_media", err)
	}

	metrics.RecordMediaUpload(string(media.Type))
	return media, nil
}

func (s *MediaService) Get(ctx context.Context, actor authz.Actor, id int64) (*domain.Media, error) {
	var media *domain.Media
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionRead, authz.ResourceMedia, nil); err != nil {
			return err
		}

		found, err := tx.Media().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return domain.NewNotFoundError(fmt.Sprintf("media %d not found", id))
		}
		media = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "get_media", err)
	}

	return media, nil
}

func (s *MediaService) ListByBlog(ctx context.Context, actor authz.Actor, blogID int64) ([]*domain.Media, error) {
	var items []*domain.Media
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		if err := s.guard.authorize(ctx, actor, authz.ActionList, authz.ResourceMedia, nil); err != nil {
			return err
		}

		if err := blogExists(ctx, tx, blogID); err != nil {
			return err
		}

		found, err := tx.Media().FindByBlog(ctx, blogID)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return domain.NewNotFoundError(fmt.Sprintf("no media found for blog %d", blogID))
		}
		items = found
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.logger, "list_media", err)
	}

	return items, nil
}

func (s *MediaService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	var url string
	err := s.store.WithinTx(ctx, func(tx domain.Tx) error {
		found, err := tx.Media().FindByID(ctx, id)
		if err != nil {
			return err
		}

		var target *authz.Target
		if found != nil {
			blog, err := tx.Blogs().FindByID(ctx, found.BlogID)
			if err != nil {
				return err
			}
			if blog != nil {
				target = &authz.Target{OwnerID: blog.OwnerID}
			}
		}
		if err := s.guard.authorize(ctx, actor, authz.ActionDelete, authz.ResourceMedia, target); err != nil {
			return err
		}

		if err := tx.Media().Delete(ctx, found.ID); err != nil {
			return err
		}

		url = found.URL
		return audit(ctx, tx, actor, domain.EntityTypeMedia, found.ID, domain.ActionTypeDelete,
			fmt.Sprintf("media removed from blog %d", found.BlogID))
	})
	if err != nil {
		return fail(ctx, s.logger, "delete_media", err)
	}

	s.removeFile(ctx, url)
	return nil
}

func (s *MediaService) removeFile(ctx context.Context, url string) {
	if err := s.files.Remove(ctx, url); err != nil {
		s.logger.WarnContext(ctx, "Media file could not be removed", map[string]interface{}{"url": url, "error": err.Error()})
	}
}
