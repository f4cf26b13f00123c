package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type MediaRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewMediaRepository(db DBTX, logger logger.Logger) domain.MediaRepository {
	return &MediaRepository{
		db:     db,
		logger: logger,
	}
}

func scanMedia(row rowScanner) (*domain.Media, error) {
	var media domain.Media
	var mediaType string
	if err := row.Scan(&media.ID, &media.URL, &mediaType, &media.CreatedAt, &media.BlogID); err != nil {
		return nil, err
	}
	media.Type = domain.MediaType(mediaType)
	return &media, nil
}

func (r *MediaRepository) FindByID(ctx context.Context, id int64) (*domain.Media, error) {
	media, err := scanMedia(r.db.QueryRowContext(ctx, `SELECT id, url, type, created_at, blog_id FROM media WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Media lookup failed", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, wrap("media lookup failed", err)
	}
	return media, nil
}

func (r *MediaRepository) FindByBlog(ctx context.Context, blogID int64) ([]*domain.Media, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, url, type, created_at, blog_id FROM media WHERE blog_id = $1 ORDER BY id`, blogID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Media could not be listed", map[string]interface{}{"blog_id": blogID, "error": err.Error()})
		return nil, wrap("media could not be listed", err)
	}
	defer rows.Close()

	items := make([]*domain.Media, 0)
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, wrap("media row could not be read", err)
		}
		items = append(items, media)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("media rows could not be read", err)
	}

	return items, nil
}

func (r *MediaRepository) Create(ctx context.Context, media *domain.Media) error {
	query := `
		INSERT INTO media (url, type, created_at, blog_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	media.CreatedAt = time.Now().UTC()

	err := r.db.QueryRowContext(ctx, query, media.URL, string(media.Type), media.CreatedAt, media.BlogID).Scan(&media.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Media could not be created", map[string]interface{}{"blog_id": media.BlogID, "error": err.Error()})
		return wrap("media could not be created", err)
	}
	return nil
}

func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Media could not be deleted", map[string]interface{}{"id": id, "error": err.Error()})
		return wrap("media could not be deleted", err)
	}
	return nil
}
