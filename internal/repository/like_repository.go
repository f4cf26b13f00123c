package repository

import (
	"context"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type LikeRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewLikeRepository(db DBTX, logger logger.Logger) domain.LikeRepository {
	return &LikeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *LikeRepository) Exists(ctx context.Context, userID, blogID int64) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE user_id = $1 AND blog_id = $2`, userID, blogID).Scan(&count)
	if err != nil {
		r.logger.ErrorContext(ctx, "Like lookup failed", map[string]interface{}{
			"user_id": userID,
			"blog_id": blogID,
			"error":   err.Error(),
		})
		return false, wrap("like lookup failed", err)
	}
	return count > 0, nil
}

func (r *LikeRepository) Create(ctx context.Context, like *domain.Like) error {
	like.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `INSERT INTO likes (user_id, blog_id, created_at) VALUES ($1, $2, $3)`,
		like.UserID, like.BlogID, like.CreatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Like could not be created", map[string]interface{}{
			"user_id": like.UserID,
			"blog_id": like.BlogID,
			"error":   err.Error(),
		})
		return wrap("like could not be created", err)
	}
	return nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, blogID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE user_id = $1 AND blog_id = $2`, userID, blogID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Like could not be deleted", map[string]interface{}{
			"user_id": userID,
			"blog_id": blogID,
			"error":   err.Error(),
		})
		return false, wrap("like could not be deleted", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, wrap("deleted likes could not be counted", err)
	}
	return affected > 0, nil
}

func (r *LikeRepository) CountByBlog(ctx context.Context, blogID int64) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE blog_id = $1`, blogID).Scan(&count); err != nil {
		r.logger.ErrorContext(ctx, "Likes could not be counted", map[string]interface{}{"blog_id": blogID, "error": err.Error()})
		return 0, wrap("likes could not be counted", err)
	}
	return count, nil
}

func (r *LikeRepository) ListLikers(ctx context.Context, blogID int64) ([]*domain.UserRef, error) {
	query := `
		SELECT u.id, u.username
		FROM users u
		JOIN likes l ON l.user_id = u.id
		WHERE l.blog_id = $1
		ORDER BY l.created_at, u.id
	`

	rows, err := r.db.QueryContext(ctx, query, blogID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Likers could not be listed", map[string]interface{}{"blog_id": blogID, "error": err.Error()})
		return nil, wrap("likers could not be listed", err)
	}
	defer rows.Close()

	users := make([]*domain.UserRef, 0)
	for rows.Next() {
		var user domain.UserRef
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, wrap("liker row could not be read", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("liker rows could not be read", err)
	}

	return users, nil
}

func (r *LikeRepository) ListLikedBlogs(ctx context.Context, userID int64) ([]*domain.Blog, error) {
	query := blogSelect + `
		JOIN likes l ON l.blog_id = b.id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC, b.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Liked blogs could not be listed", map[string]interface{}{"user_id": userID, "error": err.Error()})
		return nil, wrap("liked blogs could not be listed", err)
	}
	defer rows.Close()

	return collectBlogs(rows)
}
