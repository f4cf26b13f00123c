package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"blogapi/internal/domain"
	"blogapi/pkg/logger"
)

type CommentRepository struct {
	db     DBTX
	logger logger.Logger
}

func NewCommentRepository(db DBTX, logger logger.Logger) domain.CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

const commentSelect = `
	SELECT c.id, c.content, c.created_at, c.updated_at, c.user_id, c.blog_id, u.username
	FROM comments c
	JOIN users u ON u.id = c.user_id
`

func scanComment(row rowScanner) (*domain.Comment, error) {
	var comment domain.Comment
	err := row.Scan(
		&comment.ID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
		&comment.AuthorID,
		&comment.BlogID,
		&comment.Author.Username,
	)
	if err != nil {
		return nil, err
	}
	comment.Author.ID = comment.AuthorID
	return &comment, nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	comment, err := scanComment(r.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Comment lookup failed", map[string]interface{}{"id": id, "error": err.Error()})
		return nil, wrap("comment lookup failed", err)
	}
	return comment, nil
}

func (r *CommentRepository) FindByBlog(ctx context.Context, blogID int64) ([]*domain.Comment, error) {
	rows, err := r.db.QueryContext(ctx, commentSelect+` WHERE c.blog_id = $1 ORDER BY c.created_at, c.id`, blogID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Comments could not be listed", map[string]interface{}{"blog_id": blogID, "error": err.Error()})
		return nil, wrap("comments could not be listed", err)
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, wrap("comment row could not be read", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, wrap("comment rows could not be read", err)
	}

	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (content, created_at, updated_at, user_id, blog_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := r.db.QueryRowContext(
		ctx,
		query,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
		comment.AuthorID,
		comment.BlogID,
	).Scan(&comment.ID)

	if err != nil {
		r.logger.ErrorContext(ctx, "Comment could not be created", map[string]interface{}{"blog_id": comment.BlogID, "error": err.Error()})
		return wrap("comment could not be created", err)
	}

	return nil
}

func (r *CommentRepository) Update(ctx context.Context, comment *domain.Comment) error {
	comment.UpdatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, `UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		comment.Content, comment.UpdatedAt, comment.ID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Comment could not be updated", map[string]interface{}{"id": comment.ID, "error": err.Error()})
		return wrap("comment could not be updated", err)
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Comment could not be deleted", map[string]interface{}{"id": id, "error": err.Error()})
		return wrap("comment could not be deleted", err)
	}
	return nil
}
